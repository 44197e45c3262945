package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/peterbourgon/diskv/v3"

	"github.com/winstoncvm/jcal/internal/match"
	"github.com/winstoncvm/jcal/internal/model"
	"github.com/winstoncvm/jcal/internal/timecalc"
)

// ErrNotFound is returned when a record ID does not exist.
var ErrNotFound = errors.New("record not found")

const (
	entriesPrefix = "entries"
	goalsKey      = "goals"
	routinesKey   = "routines"
	fileExt       = ".json"
	tempDir       = ".tmp"
)

// Scope limits FetchRecords to the days in [From, To]. The zero Scope fetches everything.
type Scope struct {
	From timecalc.Date
	To   timecalc.Date
}

// All reports whether the scope is unbounded.
func (s Scope) All() bool {
	return s.From.IsZero() && s.To.IsZero()
}

// Store keeps records as JSON files below a base directory:
//
//	entries/YYYY/MM/DD.json   one DayFile per day with entries
//	goals.json
//	routines.json
type Store struct {
	d    *diskv.Diskv
	base string
}

// Open returns a Store rooted at base. Nothing is created until the first write.
func Open(base string) *Store {
	return &Store{
		base: base,
		d: diskv.New(diskv.Options{
			BasePath:          base,
			TempDir:           filepath.Join(base, tempDir),
			AdvancedTransform: keyToPath,
			InverseTransform:  pathToKey,
			PathPerm:          0o700,
			FilePerm:          0o600,
			// Files may change underneath us (sync, another process); never cache.
			CacheSizeMax: 0,
		}),
	}
}

// Base returns the store's root directory.
func (s *Store) Base() string {
	return s.base
}

func keyToPath(key string) *diskv.PathKey {
	parts := strings.Split(key, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1] + fileExt,
	}
}

func pathToKey(pk *diskv.PathKey) string {
	name := strings.TrimSuffix(pk.FileName, fileExt)
	return strings.Join(append(append([]string{}, pk.Path...), name), "/")
}

func dayKey(d timecalc.Date) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d", entriesPrefix, d.Year, int(d.Month), d.Day)
}

func (s *Store) filePath(key string) string {
	pk := keyToPath(key)
	return filepath.Join(append([]string{s.base}, append(pk.Path, pk.FileName)...)...)
}

// readJSON decodes key into v. It reports false if the key does not exist.
// Undecodable files are moved aside to <file>.corrupt.
func (s *Store) readJSON(key string, v any) (bool, error) {
	data, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage error reading %s: %w", key, err)
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		path := s.filePath(key)
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return true, nil
}

func (s *Store) writeJSON(key string, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("storage error writing %s: %w", key, err)
	}
	return nil
}

// LoadDay loads the DayFile for d. Returns an empty DayFile if none exists.
func (s *Store) LoadDay(d timecalc.Date) (model.DayFile, error) {
	var df model.DayFile
	found, err := s.readJSON(dayKey(d), &df)
	if err != nil {
		return model.DayFile{}, err
	}
	if !found {
		return model.DayFile{Date: d.String(), Entries: []model.Entry{}}, nil
	}
	return df, nil
}

// SaveDay writes the DayFile for d. An empty day removes the file.
func (s *Store) SaveDay(d timecalc.Date, df model.DayFile) error {
	if len(df.Entries) == 0 {
		err := s.d.Erase(dayKey(d))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage error removing %s: %w", dayKey(d), err)
		}
		return nil
	}
	df.Date = d.String()
	return s.writeJSON(dayKey(d), df)
}

// UpdateEntry replaces or appends an entry in the DayFile for its date.
func (s *Store) UpdateEntry(e model.Entry) error {
	df, err := s.LoadDay(e.Date)
	if err != nil {
		return err
	}
	for i, existing := range df.Entries {
		if existing.ID == e.ID {
			df.Entries[i] = e
			return s.SaveDay(e.Date, df)
		}
	}
	df.Entries = append(df.Entries, e)
	return s.SaveDay(e.Date, df)
}

// LoadRange loads all entries in [from, to] inclusive, day by day.
func (s *Store) LoadRange(from, to timecalc.Date) ([]model.Entry, error) {
	var entries []model.Entry
	for d := from; !d.After(to); d = d.AddDays(1) {
		df, err := s.LoadDay(d)
		if err != nil {
			return nil, err
		}
		entries = append(entries, df.Entries...)
	}
	return entries, nil
}

// LoadAllEntries loads every stored entry in date order.
func (s *Store) LoadAllEntries(ctx context.Context) ([]model.Entry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var entries []model.Entry
	for key := range s.d.KeysPrefix(entriesPrefix+"/", ctx.Done()) {
		var df model.DayFile
		if _, err := s.readJSON(key, &df); err != nil {
			return nil, err
		}
		entries = append(entries, df.Entries...)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Goals loads all goals.
func (s *Store) Goals() ([]model.Goal, error) {
	var goals []model.Goal
	if _, err := s.readJSON(goalsKey, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// Routines loads all routines.
func (s *Store) Routines() ([]model.Routine, error) {
	var routines []model.Routine
	if _, err := s.readJSON(routinesKey, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// SaveGoal replaces or appends g.
func (s *Store) SaveGoal(g model.Goal) error {
	goals, err := s.Goals()
	if err != nil {
		return err
	}
	return s.writeJSON(goalsKey, upsert(goals, g, func(x model.Goal) string { return x.ID }))
}

// SaveRoutine replaces or appends r.
func (s *Store) SaveRoutine(r model.Routine) error {
	routines, err := s.Routines()
	if err != nil {
		return err
	}
	return s.writeJSON(routinesKey, upsert(routines, r, func(x model.Routine) string { return x.ID }))
}

func upsert[T any](items []T, item T, id func(T) string) []T {
	for i, existing := range items {
		if id(existing) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func remove[T any](items []T, target string, id func(T) string) ([]T, bool) {
	for i, existing := range items {
		if id(existing) == target {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

// FetchRecords returns the records in scope: entries dated inside it, goals
// overlapping it and every routine. The zero Scope returns everything.
func (s *Store) FetchRecords(ctx context.Context, scope Scope) (model.Records, error) {
	var (
		recs model.Records
		err  error
	)
	if scope.All() {
		recs.Entries, err = s.LoadAllEntries(ctx)
	} else {
		recs.Entries, err = s.LoadRange(scope.From, scope.To)
	}
	if err != nil {
		return model.Records{}, err
	}

	goals, err := s.Goals()
	if err != nil {
		return model.Records{}, err
	}
	if scope.All() {
		recs.Goals = goals
	} else {
		for _, g := range goals {
			if match.GoalOverlaps(g, scope.From, scope.To) {
				recs.Goals = append(recs.Goals, g)
			}
		}
	}

	recs.Routines, err = s.Routines()
	if err != nil {
		return model.Records{}, err
	}
	return recs, nil
}

// Delete removes the entry, goal or routine with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	goals, err := s.Goals()
	if err != nil {
		return err
	}
	if rest, ok := remove(goals, id, func(g model.Goal) string { return g.ID }); ok {
		return s.writeJSON(goalsKey, rest)
	}

	routines, err := s.Routines()
	if err != nil {
		return err
	}
	if rest, ok := remove(routines, id, func(r model.Routine) string { return r.ID }); ok {
		return s.writeJSON(routinesKey, rest)
	}

	entries, err := s.LoadAllEntries(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ID != id {
			continue
		}
		df, err := s.LoadDay(e.Date)
		if err != nil {
			return err
		}
		df.Entries, _ = remove(df.Entries, id, func(x model.Entry) string { return x.ID })
		return s.SaveDay(e.Date, df)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// FindByExternalID returns the entry imported from an external calendar with
// the given ID, searching only the day d.
func (s *Store) FindByExternalID(d timecalc.Date, externalID string) (*model.Entry, error) {
	df, err := s.LoadDay(d)
	if err != nil {
		return nil, err
	}
	for i := range df.Entries {
		if df.Entries[i].ExternalID == externalID {
			return &df.Entries[i], nil
		}
	}
	return nil, nil
}
