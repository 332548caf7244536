package repository

import (
	"github.com/jackc/pgx/v5"
)

// collectMaps drains rows into generic field→value maps, the shape the view
// endpoints return as JSON. The views own their column sets; nothing here
// depends on them.
func collectMaps(rows pgx.Rows) ([]map[string]any, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]any{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			if i < len(values) {
				row[fd.Name] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
