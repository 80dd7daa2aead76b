package model

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type LinkType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
