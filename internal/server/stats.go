package server

// Stats is an immutable snapshot of server counters.
type Stats struct {
	Frames   uint64 // Frames processed successfully
	Rejected uint64 // Frames that failed to decode or encode
	Clients  int

	ProjectileHits uint64
	EnemyContacts  uint64
	OrbsCollected  uint64
	ChestsOpened   uint64
}

// tally accumulates Stats from dispatched collision events.
type tally struct {
	Stats
}

func (t *tally) ProjectileHit(projectileID, enemyID uint32) { t.Stats.ProjectileHits++ }
func (t *tally) EnemyContact(playerID, enemyID uint32) { t.Stats.EnemyContacts++ }
func (t *tally) OrbCollected(playerID, orbID uint32) { t.Stats.OrbsCollected++ }
func (t *tally) ChestOpened(playerID, chestID uint32) { t.Stats.ChestsOpened++ }
