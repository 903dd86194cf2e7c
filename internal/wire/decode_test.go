package wire

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/collisions/internal/collision"
)

const scenario = `{
	"player": {"id": 0, "position": {"x": 0, "y": 0}, "radius": 1},
	"enemies": [{"id": 7, "position": {"x": 1, "y": 0}, "radius": 0.5}],
	"projectiles": [{"id": 42, "position": {"x": 1, "y": 0}, "radius": 0.1}],
	"orbs": [{"id": 9, "position": {"x": 5, "y": 5}, "radius": 1}],
	"chests": []
}`

func TestDecode(t *testing.T) {
	state, err := Decode([]byte(scenario))
	require.NoError(t, err)

	assert.Equal(t, collision.GameObject{ID: 0, Position: collision.Point{X: 0, Y: 0}, Radius: 1}, state.Player)
	require.Len(t, state.Enemies, 1)
	assert.Equal(t, uint32(7), state.Enemies[0].ID)
	assert.Equal(t, float32(0.5), state.Enemies[0].Radius)
	require.Len(t, state.Projectiles, 1)
	assert.Equal(t, float32(0.1), state.Projectiles[0].Radius)
	require.Len(t, state.Orbs, 1)
	assert.Equal(t, collision.Point{X: 5, Y: 5}, state.Orbs[0].Position)
	assert.Empty(t, state.Chests)
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	state, err := Decode([]byte(`{
		"frame": 12,
		"frame": 13,
		"player": {"id": 3, "position": {"x": 1.5, "y": -2, "z": 9}, "radius": 4, "hp": 10},
		"enemies": [], "projectiles": [], "orbs": [], "chests": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), state.Player.ID)
	assert.Equal(t, collision.Point{X: 1.5, Y: -2}, state.Player.Position)
}

func TestDecode_AcceptsNegativeRadiusAndMaxID(t *testing.T) {
	state, err := Decode([]byte(`{
		"player": {"id": 4294967295, "position": {"x": 0, "y": 0}, "radius": -1},
		"enemies": [], "projectiles": [], "orbs": [], "chests": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, uint32(4294967295), state.Player.ID)
	assert.Equal(t, float32(-1), state.Player.Radius)
}

func TestDecode_Rejects(t *testing.T) {
	const objects = `"enemies": [], "projectiles": [], "orbs": [], "chests": []`
	const player = `"player": {"id": 1, "position": {"x": 0, "y": 0}, "radius": 1}`

	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{"malformed", `{"player": `, "$"},
		{"not an object", `[1, 2]`, "$"},
		{"empty body", ``, "$"},
		{"missing player", `{` + objects + `}`, "player"},
		{"player is array", `{"player": [], ` + objects + `}`, "player"},
		{"missing enemies", `{` + player + `, "projectiles": [], "orbs": [], "chests": []}`, "enemies"},
		{"chests is object", `{` + player + `, "enemies": [], "projectiles": [], "orbs": [], "chests": {}}`, "chests"},
		{"id is string", `{"player": {"id": "1", "position": {"x": 0, "y": 0}, "radius": 1}, ` + objects + `}`, "player.id"},
		{"id is fractional", `{"player": {"id": 1.5, "position": {"x": 0, "y": 0}, "radius": 1}, ` + objects + `}`, "player.id"},
		{"id is negative", `{"player": {"id": -1, "position": {"x": 0, "y": 0}, "radius": 1}, ` + objects + `}`, "player.id"},
		{"id overflows", `{"player": {"id": 4294967296, "position": {"x": 0, "y": 0}, "radius": 1}, ` + objects + `}`, "player.id"},
		{"missing position", `{"player": {"id": 1, "radius": 1}, ` + objects + `}`, "player.position"},
		{"position is number", `{"player": {"id": 1, "position": 3, "radius": 1}, ` + objects + `}`, "player.position"},
		{"x is null", `{"player": {"id": 1, "position": {"x": null, "y": 0}, "radius": 1}, ` + objects + `}`, "player.position.x"},
		{"y missing", `{"player": {"id": 1, "position": {"x": 0}, "radius": 1}, ` + objects + `}`, "player.position.y"},
		{"radius is bool", `{"player": {"id": 1, "position": {"x": 0, "y": 0}, "radius": true}, ` + objects + `}`, "player.radius"},
		{
			"bad nested enemy",
			`{` + player + `, "enemies": [{"id": 1, "position": {"x": 0, "y": 0}, "radius": 1}, {"id": 2, "position": {"x": "far", "y": 0}, "radius": 1}], "projectiles": [], "orbs": [], "chests": []}`,
			"enemies[1].position.x",
		},
		{"duplicate player", `{` + player + `, "player": 5, ` + objects + `}`, "player"},
		{"duplicate sequence", `{` + player + `, "enemies": [], ` + objects + `}`, "enemies"},
		{"duplicate radius", `{"player": {"id": 1, "position": {"x": 0, "y": 0}, "radius": 1, "radius": 2}, ` + objects + `}`, "player.radius"},
		{"duplicate x", `{"player": {"id": 1, "position": {"x": 0, "x": 0, "y": 0}, "radius": 1}, ` + objects + `}`, "player.position.x"},
		{
			"duplicate id in chest",
			`{` + player + `, "enemies": [], "projectiles": [], "orbs": [], "chests": [{"id": 1, "id": 2, "position": {"x": 0, "y": 0}, "radius": 1}]}`,
			"chests[0].id",
		},
		{"orb is not an object", `{` + player + `, "enemies": [], "projectiles": [], "orbs": [5], "chests": []}`, "orbs[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDecode))
			assert.False(t, errors.Is(err, ErrEncode))

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.Equal(t, tt.wantPath, decErr.Path)
			assert.Contains(t, err.Error(), tt.wantPath)
		})
	}
}
