// Package sprdb stores sprite-set name listings in a SQLite database.
//
// Containers ship with their embedded names stripped in some releases; the
// database supplies the missing texture and sprite names, keyed by the
// container filename and the entry's declared index.
package sprdb

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Set is one sprite set's name listing. Textures and Sprites map the entry's
// declared index to its full database name.
type Set struct {
	Name     string
	Filename string
	Textures map[uint32]string
	Sprites  map[uint32]string
}

// DB is an open name database.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite_set (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL, filename TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS texture_name (set_id INTEGER NOT NULL, idx INTEGER NOT NULL, name TEXT NOT NULL, FOREIGN KEY(set_id) REFERENCES sprite_set(id))"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite_name (set_id INTEGER NOT NULL, idx INTEGER NOT NULL, name TEXT NOT NULL, FOREIGN KEY(set_id) REFERENCES sprite_set(id))"); err != nil {
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the underlying database.
func (db *DB) Close() error {
	return db.db.Close()
}

// SetForFile returns the set record for a container filename, or (nil, nil)
// when the database has no entry for it.
func (db *DB) SetForFile(filename string) (*Set, error) {
	var id int64
	set := &Set{
		Filename: filename,
		Textures: make(map[uint32]string),
		Sprites:  make(map[uint32]string),
	}
	switch err := db.db.QueryRow("SELECT id, name FROM sprite_set WHERE filename = ?", filename).Scan(&id, &set.Name); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
	default:
		return nil, err
	}

	if err := db.readNames("texture_name", id, set.Textures); err != nil {
		return nil, err
	}
	if err := db.readNames("sprite_name", id, set.Sprites); err != nil {
		return nil, err
	}
	return set, nil
}

func (db *DB) readNames(table string, id int64, into map[uint32]string) error {
	rows, err := db.db.Query(fmt.Sprintf("SELECT idx, name FROM %s WHERE set_id = ?", table), id)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var idx uint32
		var name string
		if err := rows.Scan(&idx, &name); err != nil {
			return err
		}
		into[idx] = name
	}
	return rows.Err()
}

// Put inserts or replaces the whole set record, entry names included.
func (db *DB) Put(set *Set) error {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM sprite_set WHERE filename = ?", set.Filename).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO sprite_set (name, filename) VALUES (?, ?)", set.Name, set.Filename)
		if err != nil {
			return err
		}
		if id, err = result.LastInsertId(); err != nil {
			return err
		}
	case nil:
		if _, err := db.db.Exec("UPDATE sprite_set SET name = ? WHERE id = ?", set.Name, id); err != nil {
			return err
		}
		if _, err := db.db.Exec("DELETE FROM texture_name WHERE set_id = ?", id); err != nil {
			return err
		}
		if _, err := db.db.Exec("DELETE FROM sprite_name WHERE set_id = ?", id); err != nil {
			return err
		}
	default:
		return err
	}

	for idx, name := range set.Textures {
		if _, err := db.db.Exec("INSERT INTO texture_name (set_id, idx, name) VALUES (?, ?, ?)", id, idx, name); err != nil {
			return err
		}
	}
	for idx, name := range set.Sprites {
		if _, err := db.db.Exec("INSERT INTO sprite_name (set_id, idx, name) VALUES (?, ?, ?)", id, idx, name); err != nil {
			return err
		}
	}
	return nil
}
