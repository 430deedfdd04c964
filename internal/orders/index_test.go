package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codespace555/arya-co/internal/models"
)

func TestBuildUserIndex(t *testing.T) {
	users := []models.User{
		{ID: "u1", Name: "Asha", Phone: "9000000001"},
		{ID: "u2", Name: "Ravi", Phone: "9000000002"},
		{Name: "No ID", Phone: "9000000003"},
	}

	index := BuildUserIndex(users)

	assert.Len(t, index, 2)
	assert.Equal(t, users[0], index["u1"])
	assert.Equal(t, users[1], index["u2"])
	_, ok := index[""]
	assert.False(t, ok, "records without an id must be excluded")
}

func TestBuildUserIndexEmpty(t *testing.T) {
	assert.Empty(t, BuildUserIndex(nil))
}

func TestDisplayName(t *testing.T) {
	index := BuildUserIndex([]models.User{{ID: "u1", Name: "Asha"}, {ID: "u2"}})

	assert.Equal(t, "Asha", DisplayName(index, "u1"))
	assert.Equal(t, UnknownUser, DisplayName(index, "ghost"))
	assert.Equal(t, UnknownUser, DisplayName(index, "u2"), "nameless user degrades the same way")
}
