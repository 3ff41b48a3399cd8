package wildcard

// Config tunes the flavor-substitution pass. Defaults mirror the shipped
// post-apocalypse pack.
type Config struct {
	Enabled             bool
	WordChance          float64
	MaxSwapsPerSentence int
	MinWordLength       int
	RecentWindowSize    int
	BanList             []string
	ProtectedTerms      []string
}

func DefaultConfig() Config {
	return Config{
		Enabled:             true,
		WordChance:          0.25,
		MaxSwapsPerSentence: 1,
		MinWordLength:       4,
		RecentWindowSize:    50,
		BanList:             []string{"wasteland", "rusted", "ash-choked", "scavenger", "mutated"},
		ProtectedTerms:      []string{"HP", "XP", "Turn", "Main Quest", "Your move"},
	}
}
