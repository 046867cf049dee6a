package db

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ramanasai/dayline/internal/block"
	"github.com/ramanasai/dayline/internal/state"
)

// Load reads the whole persisted state. On any failure it returns an empty
// state together with the error, so callers can keep going.
func Load(dbh *sql.DB) (*state.State, error) {
	doc, err := readDocument(dbh)
	if err != nil {
		return state.Empty(), fmt.Errorf("load state: %w", err)
	}
	st, err := state.FromDocument(doc)
	if err != nil {
		return st, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}

func readDocument(dbh *sql.DB) (state.Document, error) {
	doc := state.Document{Version: state.VersionCurrent}

	meta, err := readMeta(dbh)
	if err != nil {
		return doc, err
	}
	if v, ok := meta["version"]; ok {
		if doc.Version, err = strconv.Atoi(v); err != nil {
			return doc, fmt.Errorf("meta version %q: %w", v, err)
		}
	}
	doc.Theme = meta["theme"]
	if v, ok := meta["start_hour"]; ok {
		doc.StartHour, _ = strconv.Atoi(v)
	}

	if doc.Activities, err = readActivities(dbh); err != nil {
		return doc, err
	}
	if err := readBlocks(dbh, &doc); err != nil {
		return doc, err
	}
	if doc.ChecklistBlocksByDate, err = readChecklists(dbh); err != nil {
		return doc, err
	}
	if doc.LabelsByDate, err = readLabels(dbh); err != nil {
		return doc, err
	}
	if doc.FineBounds, err = readFine(dbh); err != nil {
		return doc, err
	}
	return doc, nil
}

func readMeta(dbh *sql.DB) (map[string]string, error) {
	rows, err := dbh.Query(`SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func readActivities(dbh *sql.DB) ([]block.Activity, error) {
	rows, err := dbh.Query(`SELECT id, name, color FROM activities ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []block.Activity
	for rows.Next() {
		var a block.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.Color); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func readBlocks(dbh *sql.DB, doc *state.Document) error {
	rows, err := dbh.Query(`
		SELECT id, scope, layer, start_min, end_min, activity_id, source
		FROM blocks
		ORDER BY scope, start_min
	`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var b block.Block
		if err := rows.Scan(&b.ID, &b.Date, &b.Layer, &b.StartMin, &b.EndMin, &b.ActivityID, &b.Source); err != nil {
			return err
		}
		if b.Layer.IsPlan() {
			if doc.PlanByWeek == nil {
				doc.PlanByWeek = map[string][]block.Block{}
			}
			doc.PlanByWeek[b.Date] = append(doc.PlanByWeek[b.Date], b)
			continue
		}
		if doc.BlocksByDate == nil {
			doc.BlocksByDate = map[string][]block.Block{}
		}
		doc.BlocksByDate[b.Date] = append(doc.BlocksByDate[b.Date], b)
	}
	return rows.Err()
}

func readChecklists(dbh *sql.DB) (map[string][]block.ChecklistBlock, error) {
	rows, err := dbh.Query(`
		SELECT c.id, c.date, c.layer, c.start_min, c.end_min, c.activity_id,
		       i.id, i.text, i.done
		FROM checklists c
		LEFT JOIN checklist_items i ON i.checklist_id = c.id
		ORDER BY c.date, c.start_min, c.id, i.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]block.ChecklistBlock{}
	index := map[string]int{}
	for rows.Next() {
		var cb block.ChecklistBlock
		var itemID, text sql.NullString
		var done sql.NullBool
		if err := rows.Scan(&cb.ID, &cb.Date, &cb.Layer, &cb.StartMin, &cb.EndMin, &cb.ActivityID, &itemID, &text, &done); err != nil {
			return nil, err
		}
		i, ok := index[cb.ID]
		if !ok {
			out[cb.Date] = append(out[cb.Date], cb)
			i = len(out[cb.Date]) - 1
			index[cb.ID] = i
		}
		if itemID.Valid {
			list := out[cb.Date]
			list[i].Items = append(list[i].Items, block.ChecklistItem{ID: itemID.String, Text: text.String, Done: done.Bool})
		}
	}
	return out, rows.Err()
}

func readLabels(dbh *sql.DB) (map[string][]block.Label, error) {
	rows, err := dbh.Query(`SELECT id, date, minute, text FROM labels ORDER BY date, minute, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][]block.Label{}
	for rows.Next() {
		var l block.Label
		if err := rows.Scan(&l.ID, &l.Date, &l.Minute, &l.Text); err != nil {
			return nil, err
		}
		out[l.Date] = append(out[l.Date], l)
	}
	return out, rows.Err()
}

func readFine(dbh *sql.DB) ([]state.FineEntry, error) {
	rows, err := dbh.Query(`
		SELECT date, hour, layer, activity_id, start_col, end_col, start_minute, end_minute
		FROM fine_bounds
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []state.FineEntry
	for rows.Next() {
		var fe state.FineEntry
		if err := rows.Scan(&fe.Date, &fe.Hour, &fe.Layer, &fe.ActivityID, &fe.StartCol, &fe.EndCol,
			&fe.StartMinute, &fe.EndMinute); err != nil {
			return nil, err
		}
		out = append(out, fe)
	}
	return out, rows.Err()
}

// Save replaces the persisted state with st in one transaction.
func Save(dbh *sql.DB, st *state.State) error {
	doc := state.ToDocument(st)

	tx, err := dbh.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"checklist_items", "checklists", "blocks", "labels", "fine_bounds", "activities", "meta"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"version":    strconv.Itoa(doc.Version),
		"theme":      doc.Theme,
		"start_hour": strconv.Itoa(doc.StartHour),
	}
	for k, v := range meta {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("save meta: %w", err)
		}
	}
	for i, a := range doc.Activities {
		if _, err := tx.Exec(`INSERT INTO activities (id, name, color, position) VALUES (?, ?, ?, ?)`,
			a.ID, a.Name, a.Color, i); err != nil {
			return fmt.Errorf("save activity %s: %w", a.Name, err)
		}
	}
	for _, group := range []map[string][]block.Block{doc.BlocksByDate, doc.PlanByWeek} {
		for _, bs := range group {
			for _, b := range bs {
				if _, err := tx.Exec(`
					INSERT INTO blocks (id, scope, layer, start_min, end_min, activity_id, source)
					VALUES (?, ?, ?, ?, ?, ?, ?)
				`, b.ID, b.Date, string(b.Layer), b.StartMin, b.EndMin, b.ActivityID, string(b.Source)); err != nil {
					return fmt.Errorf("save block %s: %w", b.ID, err)
				}
			}
		}
	}
	for _, cbs := range doc.ChecklistBlocksByDate {
		for _, cb := range cbs {
			if _, err := tx.Exec(`
				INSERT INTO checklists (id, date, layer, start_min, end_min, activity_id)
				VALUES (?, ?, ?, ?, ?, ?)
			`, cb.ID, cb.Date, string(cb.Layer), cb.StartMin, cb.EndMin, cb.ActivityID); err != nil {
				return fmt.Errorf("save checklist %s: %w", cb.ID, err)
			}
			for pos, it := range cb.Items {
				if _, err := tx.Exec(`
					INSERT INTO checklist_items (id, checklist_id, position, text, done)
					VALUES (?, ?, ?, ?, ?)
				`, it.ID, cb.ID, pos, it.Text, it.Done); err != nil {
					return fmt.Errorf("save checklist item %s: %w", it.ID, err)
				}
			}
		}
	}
	for _, ls := range doc.LabelsByDate {
		for _, l := range ls {
			if _, err := tx.Exec(`INSERT INTO labels (id, date, minute, text) VALUES (?, ?, ?, ?)`,
				l.ID, l.Date, l.Minute, l.Text); err != nil {
				return fmt.Errorf("save label %s: %w", l.ID, err)
			}
		}
	}
	for _, fe := range doc.FineBounds {
		if _, err := tx.Exec(`
			INSERT INTO fine_bounds (date, hour, layer, activity_id, start_col, end_col, start_minute, end_minute)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, fe.Date, fe.Hour, string(fe.Layer), fe.ActivityID, fe.StartCol, fe.EndCol, fe.StartMinute, fe.EndMinute); err != nil {
			return fmt.Errorf("save fine bounds: %w", err)
		}
	}
	return tx.Commit()
}
