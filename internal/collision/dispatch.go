package collision

// Handler receives collisions routed by category pair.
type Handler interface {
	ProjectileHit(projectileID, enemyID uint32)
	EnemyContact(playerID, enemyID uint32)
	OrbCollected(playerID, orbID uint32)
	ChestOpened(playerID, chestID uint32)
}

// Dispatch routes each event to the matching Handler method, in order.
// Either orientation of a pair is accepted. Events for any other pair are
// skipped and counted in unhandled.
func Dispatch(events []CollisionEvent, h Handler) (unhandled int) {
	for _, ev := range events {
		// Put the pair in checked orientation before matching.
		a, idA, b, idB := ev.TypeA, ev.IDA, ev.TypeB, ev.IDB
		if b == Projectile || (a != Projectile && b == Player) {
			a, idA, b, idB = b, idB, a, idA
		}

		switch {
		case a == Projectile && b == Enemy:
			h.ProjectileHit(idA, idB)
		case a == Player && b == Enemy:
			h.EnemyContact(idA, idB)
		case a == Player && b == ExperienceOrb:
			h.OrbCollected(idA, idB)
		case a == Player && b == TreasureChest:
			h.ChestOpened(idA, idB)
		default:
			unhandled++
		}
	}
	return unhandled
}
