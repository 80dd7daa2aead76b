package mail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStudentAddress(t *testing.T) {
	require.Equal(t, "U1234567@unimail.hud.ac.uk", StudentAddress("1234567", "unimail.hud.ac.uk"))
	require.Equal(t, "U7654321@example.edu", StudentAddress("7654321", "example.edu"))
}
