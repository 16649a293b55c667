// ABOUTME: Database schema definitions
// ABOUTME: Handles SQLite table creation and initialization
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT UNIQUE NOT NULL,
	phone TEXT DEFAULT '',
	company TEXT DEFAULT '',
	title TEXT DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	lead_score INTEGER NOT NULL DEFAULT 0 CHECK(lead_score BETWEEN 0 AND 100),
	status TEXT NOT NULL DEFAULT 'lead' CHECK(status IN ('lead', 'prospect', 'customer', 'churned')),
	owner TEXT DEFAULT '',
	source TEXT DEFAULT '',
	last_contact DATETIME,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_email ON contacts(email);
CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(status);
CREATE INDEX IF NOT EXISTS idx_contacts_score ON contacts(lead_score DESC);

CREATE TABLE IF NOT EXISTS deals (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	title TEXT NOT NULL,
	value INTEGER NOT NULL DEFAULT 0 CHECK(value >= 0),
	stage TEXT NOT NULL CHECK(stage IN ('prospecting', 'qualified', 'proposal', 'negotiation', 'closed_won', 'closed_lost')),
	probability INTEGER NOT NULL CHECK(probability BETWEEN 0 AND 100),
	close_date DATE,
	notes TEXT DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_contact_id ON deals(contact_id);
CREATE INDEX IF NOT EXISTS idx_deals_stage ON deals(stage);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL REFERENCES contacts(id),
	type TEXT NOT NULL CHECK(type IN ('call', 'email', 'meeting', 'demo', 'follow_up')),
	summary TEXT NOT NULL,
	outcome TEXT DEFAULT '',
	next_action TEXT DEFAULT '',
	recorded_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_contact_id ON activities(contact_id);
CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type);
CREATE INDEX IF NOT EXISTS idx_activities_recorded_at ON activities(recorded_at DESC);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
