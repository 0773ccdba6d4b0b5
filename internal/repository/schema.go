package repository

import "github.com/laaraari2/theatre-management-system-sub001/pkg/db"

// SettingsTable is read and written by SettingsRepository
var SettingsTable = db.Table{
	Name: "settings",
	Columns: []db.Column{
		{Name: "key", DataType: "varchar"},
		{Name: "value"},
		{Name: "created_at"},
		{Name: "updated_at"},
	},
}

// ActivitiesTable is read and written by ActivityRepository
var ActivitiesTable = db.Table{
	Name: "activities",
	Columns: []db.Column{
		{Name: "id", DataType: "bigint"},
		{Name: "title", DataType: "varchar"},
		{Name: "description"},
		{Name: "location", DataType: "varchar"},
		{Name: "date", DataType: "varchar", Nullable: true},
		{Name: "created_at"},
		{Name: "updated_at"},
	},
}
