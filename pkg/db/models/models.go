package models

// All returns every model in dependency order, for AutoMigrate in tests and sqlite mode.
func All() []any {
	return []any{
		&ProductFamily{},
		&VideoTemplate{},
		&Product{},
		&Advertisement{},
		&Device{},
	}
}
