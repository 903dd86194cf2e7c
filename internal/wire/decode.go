// Package wire converts frame snapshots and collision events to and from
// their JSON form. All validation happens here so the detector never sees
// malformed input.
package wire

import (
	"fmt"
	"math"
	"slices"

	"github.com/tidwall/gjson"
	"github.com/tomz197/collisions/internal/collision"
)

// Decode validates a JSON snapshot and builds the GameState it describes.
// Unknown fields are ignored. On failure the returned error is a
// *DecodeError and no state is returned.
func Decode(data []byte) (collision.GameState, error) {
	if !gjson.ValidBytes(data) {
		return collision.GameState{}, &DecodeError{Path: "$", Reason: "malformed JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return collision.GameState{}, &DecodeError{Path: "$", Reason: "expected object, got " + kind(root)}
	}
	if err := checkDuplicates(root, "$", "player", "enemies", "projectiles", "orbs", "chests"); err != nil {
		return collision.GameState{}, err
	}

	var (
		state collision.GameState
		err   error
	)
	if state.Player, err = decodeObject(root.Get("player"), "player"); err != nil {
		return collision.GameState{}, err
	}
	if state.Enemies, err = decodeSequence(root.Get("enemies"), "enemies"); err != nil {
		return collision.GameState{}, err
	}
	if state.Projectiles, err = decodeSequence(root.Get("projectiles"), "projectiles"); err != nil {
		return collision.GameState{}, err
	}
	if state.Orbs, err = decodeSequence(root.Get("orbs"), "orbs"); err != nil {
		return collision.GameState{}, err
	}
	if state.Chests, err = decodeSequence(root.Get("chests"), "chests"); err != nil {
		return collision.GameState{}, err
	}
	return state, nil
}

func decodeSequence(r gjson.Result, path string) ([]collision.GameObject, error) {
	if !r.Exists() {
		return nil, &DecodeError{Path: path, Reason: "missing field"}
	}
	if !r.IsArray() {
		return nil, &DecodeError{Path: path, Reason: "expected array, got " + kind(r)}
	}

	items := r.Array()
	objects := make([]collision.GameObject, 0, len(items))
	for i, item := range items {
		o, err := decodeObject(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, nil
}

func decodeObject(r gjson.Result, path string) (collision.GameObject, error) {
	if !r.Exists() {
		return collision.GameObject{}, &DecodeError{Path: path, Reason: "missing field"}
	}
	if !r.IsObject() {
		return collision.GameObject{}, &DecodeError{Path: path, Reason: "expected object, got " + kind(r)}
	}
	if err := checkDuplicates(r, path, "id", "position", "radius"); err != nil {
		return collision.GameObject{}, err
	}

	var (
		o   collision.GameObject
		err error
	)
	if o.ID, err = decodeID(r.Get("id"), path+".id"); err != nil {
		return collision.GameObject{}, err
	}

	pos := r.Get("position")
	switch {
	case !pos.Exists():
		return collision.GameObject{}, &DecodeError{Path: path + ".position", Reason: "missing field"}
	case !pos.IsObject():
		return collision.GameObject{}, &DecodeError{Path: path + ".position", Reason: "expected object, got " + kind(pos)}
	}
	if err := checkDuplicates(pos, path+".position", "x", "y"); err != nil {
		return collision.GameObject{}, err
	}
	if o.Position.X, err = decodeFloat(pos.Get("x"), path+".position.x"); err != nil {
		return collision.GameObject{}, err
	}
	if o.Position.Y, err = decodeFloat(pos.Get("y"), path+".position.y"); err != nil {
		return collision.GameObject{}, err
	}

	if o.Radius, err = decodeFloat(r.Get("radius"), path+".radius"); err != nil {
		return collision.GameObject{}, err
	}
	return o, nil
}

func decodeID(r gjson.Result, path string) (uint32, error) {
	if !r.Exists() {
		return 0, &DecodeError{Path: path, Reason: "missing field"}
	}
	if r.Type != gjson.Number {
		return 0, &DecodeError{Path: path, Reason: "expected unsigned 32-bit integer, got " + kind(r)}
	}
	n := r.Num
	if n != math.Trunc(n) || n < 0 || n > math.MaxUint32 {
		return 0, &DecodeError{Path: path, Reason: fmt.Sprintf("%s is not an unsigned 32-bit integer", r.Raw)}
	}
	return uint32(n), nil
}

func decodeFloat(r gjson.Result, path string) (float32, error) {
	if !r.Exists() {
		return 0, &DecodeError{Path: path, Reason: "missing field"}
	}
	if r.Type != gjson.Number {
		return 0, &DecodeError{Path: path, Reason: "expected number, got " + kind(r)}
	}
	return float32(r.Num), nil
}

// checkDuplicates rejects an object that repeats any of the given fields.
// Repeats of other, ignored fields are allowed.
func checkDuplicates(r gjson.Result, path string, fields ...string) error {
	seen := make(map[string]bool, len(fields))
	var err error
	r.ForEach(func(key, _ gjson.Result) bool {
		name := key.String()
		if !slices.Contains(fields, name) {
			return true
		}
		if seen[name] {
			err = &DecodeError{Path: fieldPath(path, name), Reason: "duplicate field"}
			return false
		}
		seen[name] = true
		return true
	})
	return err
}

func fieldPath(path, name string) string {
	if path == "$" {
		return name
	}
	return path + "." + name
}

// kind names the JSON type of r for error messages.
func kind(r gjson.Result) string {
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if r.IsArray() {
		return "array"
	}
	return "object"
}
