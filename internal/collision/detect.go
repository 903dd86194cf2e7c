package collision

import "github.com/tomz197/collisions/internal/physics"

// Overlaps reports whether the bounding circles of a and b overlap.
// Circles that exactly touch are not overlapping. Negative radii are
// used as given.
func Overlaps(a, b GameObject) bool {
	return physics.CirclesOverlap(
		a.Position.X, a.Position.Y, a.Radius,
		b.Position.X, b.Position.Y, b.Radius,
	)
}

// Detect returns every collision in the snapshot.
//
// Only four category pairs are checked, in this order: projectile-enemy,
// player-enemy, player-orb, player-chest. Within a pair, events follow the
// input order of both sequences. The result is never nil.
func Detect(state GameState) []CollisionEvent {
	events := make([]CollisionEvent, 0)

	events = checkProjectileEnemyCollisions(events, state.Projectiles, state.Enemies)
	events = checkPlayerCollisions(events, state.Player, Enemy, state.Enemies)
	events = checkPlayerCollisions(events, state.Player, ExperienceOrb, state.Orbs)
	events = checkPlayerCollisions(events, state.Player, TreasureChest, state.Chests)

	return events
}

// checkProjectileEnemyCollisions tests every projectile against every enemy.
// A projectile overlapping several enemies produces one event per enemy.
func checkProjectileEnemyCollisions(events []CollisionEvent, projectiles, enemies []GameObject) []CollisionEvent {
	for _, p := range projectiles {
		for _, e := range enemies {
			if Overlaps(p, e) {
				events = append(events, CollisionEvent{
					TypeA: Projectile,
					IDA:   p.ID,
					TypeB: Enemy,
					IDB:   e.ID,
				})
			}
		}
	}
	return events
}

// checkPlayerCollisions tests the player against each object of one category.
func checkPlayerCollisions(events []CollisionEvent, player GameObject, kind CollidableType, objects []GameObject) []CollisionEvent {
	for _, o := range objects {
		if Overlaps(player, o) {
			events = append(events, CollisionEvent{
				TypeA: Player,
				IDA:   player.ID,
				TypeB: kind,
				IDB:   o.ID,
			})
		}
	}
	return events
}
