package passpkg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/linguamarket/lingua/pkg/randompkg"
)

func TestHashAndCheck(t *testing.T) {
	password := randompkg.String(12)

	hashed, err := Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	require.NoError(t, Check(password, hashed))

	err = Check(randompkg.String(12), hashed)
	require.EqualError(t, err, bcrypt.ErrMismatchedHashAndPassword.Error())
}

func TestHashUsesRandomSalt(t *testing.T) {
	password := randompkg.String(12)

	hashed1, err := Hash(password)
	require.NoError(t, err)

	hashed2, err := Hash(password)
	require.NoError(t, err)

	require.NotEqual(t, hashed1, hashed2)
}
