package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ScoresColumns holds the columns for the "scores" table.
	ScoresColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "exercise_id", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "session_id", Type: field.TypeString},
	}
	// ScoresTable holds the schema information for the "scores" table.
	ScoresTable = &schema.Table{
		Name:       "scores",
		Columns:    ScoresColumns,
		PrimaryKey: []*schema.Column{ScoresColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "score_exercise_id_sequence",
				Unique:  false,
				Columns: []*schema.Column{ScoresColumns[2], ScoresColumns[1]},
			},
		},
	}

	// BlacklistColumns holds the columns for the "blacklist" table.
	BlacklistColumns = []*schema.Column{
		{Name: "unit_id", Type: field.TypeString},
		{Name: "added_at", Type: field.TypeInt64},
	}
	// BlacklistTable holds the schema information for the "blacklist" table.
	BlacklistTable = &schema.Table{
		Name:       "blacklist",
		Columns:    BlacklistColumns,
		PrimaryKey: []*schema.Column{BlacklistColumns[0]},
	}

	// ReviewListColumns holds the columns for the "review_list" table.
	ReviewListColumns = []*schema.Column{
		{Name: "unit_id", Type: field.TypeString},
		{Name: "added_at", Type: field.TypeInt64},
	}
	// ReviewListTable holds the schema information for the "review_list" table.
	ReviewListTable = &schema.Table{
		Name:       "review_list",
		Columns:    ReviewListColumns,
		PrimaryKey: []*schema.Column{ReviewListColumns[0]},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ScoresTable,
		BlacklistTable,
		ReviewListTable,
	}
)
