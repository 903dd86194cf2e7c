package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollidableTypeLabels(t *testing.T) {
	for _, label := range []string{"Player", "Enemy", "Projectile", "ExperienceOrb", "TreasureChest"} {
		typ, err := ParseCollidableType(label)
		require.NoError(t, err)
		assert.True(t, typ.Valid())
		assert.Equal(t, label, typ.String())
	}
}

func TestCollidableTypeInvalid(t *testing.T) {
	_, err := ParseCollidableType("player")
	assert.Error(t, err)

	bad := CollidableType(12)
	assert.False(t, bad.Valid())
	assert.Equal(t, "CollidableType(12)", bad.String())
	assert.False(t, CollidableType(-1).Valid())
}
