// Package collision detects overlapping objects in a single frame snapshot.
package collision

import "fmt"

// Point is a 2D position in world units.
type Point struct {
	X, Y float32
}

// GameObject is an identified bounding circle.
type GameObject struct {
	ID       uint32
	Position Point
	Radius   float32 // Not validated; see Overlaps
}

// GameState is the snapshot of every collidable object for one frame.
type GameState struct {
	Player      GameObject
	Enemies     []GameObject
	Projectiles []GameObject
	Orbs        []GameObject
	Chests      []GameObject
}

// CollidableType tags the category an object belongs to.
type CollidableType int

const (
	Player CollidableType = iota
	Enemy
	Projectile
	ExperienceOrb
	TreasureChest
)

var typeLabels = [...]string{
	Player:        "Player",
	Enemy:         "Enemy",
	Projectile:    "Projectile",
	ExperienceOrb: "ExperienceOrb",
	TreasureChest: "TreasureChest",
}

// Valid reports whether t is one of the five known categories.
func (t CollidableType) Valid() bool {
	return t >= Player && t <= TreasureChest
}

// String returns the wire label of the category.
func (t CollidableType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("CollidableType(%d)", int(t))
	}
	return typeLabels[t]
}

// ParseCollidableType returns the category for a wire label.
func ParseCollidableType(label string) (CollidableType, error) {
	for t, l := range typeLabels {
		if l == label {
			return CollidableType(t), nil
		}
	}
	return 0, fmt.Errorf("unknown collidable type %q", label)
}

// CollisionEvent records one overlap. A is the first category of the pair
// as checked by Detect, B the second.
type CollisionEvent struct {
	TypeA CollidableType
	IDA   uint32
	TypeB CollidableType
	IDB   uint32
}
