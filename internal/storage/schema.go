// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for meal entries, daily aggregates, combos and weights.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meal_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		section TEXT NOT NULL,
		name TEXT NOT NULL,
		food_id TEXT,
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		quantity REAL NOT NULL,
		unit TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_aggregates (
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		calories REAL NOT NULL DEFAULT 0,
		protein REAL NOT NULL DEFAULT 0,
		carbs REAL NOT NULL DEFAULT 0,
		fat REAL NOT NULL DEFAULT 0,
		water_ml REAL NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL,
		UNIQUE (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS combos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		total_calories INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS combo_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		combo_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		calories REAL NOT NULL,
		protein REAL NOT NULL,
		carbs REAL NOT NULL,
		fat REAL NOT NULL,
		unit TEXT NOT NULL,
		portion REAL NOT NULL,
		quantity REAL NOT NULL,
		FOREIGN KEY (combo_id) REFERENCES combos(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS weights (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		weight REAL NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (user_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_meal_entries_user_date ON meal_entries(user_id, date);
	CREATE INDEX IF NOT EXISTS idx_combos_user ON combos(user_id);
	CREATE INDEX IF NOT EXISTS idx_combo_items_combo ON combo_items(combo_id, position);
	`

	_, err := d.db.Exec(schema)
	return err
}
