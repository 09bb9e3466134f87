// ABOUTME: Badger KV implementation of the Repository interface.
// ABOUTME: Uses type-prefixed, zero-padded keys with JSON values and badger sequences for ids.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/nutrition/internal/logger"
	"github.com/harperreed/nutrition/internal/models"
)

const (
	mealPrefix      = "meal:"
	mealIndex       = "mealidx:"
	dailyPrefix     = "daily:"
	comboPrefix     = "combo:"
	comboIndex      = "comboidx:"
	weightPrefix    = "weight:"
	seqBandwidth    = 100
	conflictRetries = 5
)

// KVStore implements Repository on top of an embedded Badger database.
type KVStore struct {
	db       *badger.DB
	dir      string
	mealSeq  *badger.Sequence
	comboSeq *badger.Sequence
	wSeq     *badger.Sequence
}

var _ Repository = (*KVStore)(nil)

// OpenKV opens or creates a Badger store in dir.
func OpenKV(dir string, log *logger.Logger) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, unavailable("create kv directory", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(kvLogger{logger.OrNop(log)})
	return openKV(opts, dir)
}

// OpenKVInMemory opens a Badger store that lives only in memory.
func OpenKVInMemory(log *logger.Logger) (*KVStore, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(kvLogger{logger.OrNop(log)})
	return openKV(opts, "")
}

func openKV(opts badger.Options, dir string) (*KVStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, unavailable("open kv store", err)
	}

	s := &KVStore{db: db, dir: dir}
	if s.mealSeq, err = db.GetSequence([]byte("seq:meal"), seqBandwidth); err == nil {
		if s.comboSeq, err = db.GetSequence([]byte("seq:combo"), seqBandwidth); err == nil {
			s.wSeq, err = db.GetSequence([]byte("seq:weight"), seqBandwidth)
		}
	}
	if err != nil {
		_ = s.Close()
		return nil, unavailable("open kv sequences", err)
	}
	return s, nil
}

// Path returns the store directory, empty for in-memory stores.
func (s *KVStore) Path() string {
	return s.dir
}

// Close releases the id sequences and closes the store.
func (s *KVStore) Close() error {
	for _, seq := range []*badger.Sequence{s.mealSeq, s.comboSeq, s.wSeq} {
		if seq != nil {
			_ = seq.Release()
		}
	}
	s.mealSeq, s.comboSeq, s.wSeq = nil, nil, nil
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// kvLogger routes badger's internal logging through our logger.
type kvLogger struct {
	l *logger.Logger
}

func (k kvLogger) Errorf(f string, v ...interface{}) {
	k.l.SugaredLogger.Errorf(strings.TrimSpace(f), v...)
}
func (k kvLogger) Warningf(f string, v ...interface{}) {
	k.l.SugaredLogger.Warnf(strings.TrimSpace(f), v...)
}
func (k kvLogger) Infof(f string, v ...interface{}) {
	k.l.SugaredLogger.Debugf(strings.TrimSpace(f), v...)
}
func (k kvLogger) Debugf(f string, v ...interface{}) {
	k.l.SugaredLogger.Debugf(strings.TrimSpace(f), v...)
}

func mealKey(userID int64, date models.Date, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s:%020d", mealPrefix, userID, date, id))
}

func mealDayPrefix(userID int64, date models.Date) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s:", mealPrefix, userID, date))
}

func mealIndexKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", mealIndex, id))
}

func dailyUserPrefix(userID int64) string {
	return fmt.Sprintf("%s%020d:", dailyPrefix, userID)
}

func dailyKey(userID int64, date models.Date) []byte {
	return []byte(dailyUserPrefix(userID) + string(date))
}

func comboUserPrefix(userID int64) string {
	return fmt.Sprintf("%s%020d:", comboPrefix, userID)
}

func comboKey(userID, id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", comboUserPrefix(userID), id))
}

func comboIndexKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", comboIndex, id))
}

func weightUserPrefix(userID int64) string {
	return fmt.Sprintf("%s%020d:", weightPrefix, userID)
}

func weightKey(userID int64, date models.Date) []byte {
	return []byte(weightUserPrefix(userID) + string(date))
}

// nextID draws the next id from seq. Badger sequences start at zero.
func nextID(seq *badger.Sequence) (int64, error) {
	n, err := seq.Next()
	if err != nil {
		return 0, err
	}
	return int64(n) + 1, nil
}

// update runs fn in a read-write transaction, retrying on write conflicts.
func (s *KVStore) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < conflictRetries; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (s *KVStore) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// scanPrefix calls fn with the key and value of each item under prefix, in key order.
// Returning errStopScan from fn ends the scan early.
func scanPrefix(txn *badger.Txn, prefix []byte, start []byte, fn func(key, val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	seek := prefix
	if start != nil {
		seek = start
	}
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(item.Key(), val); err != nil {
			if errors.Is(err, errStopScan) {
				return nil
			}
			return err
		}
	}
	return nil
}

var errStopScan = errors.New("stop scan")

// Meal ledger

// CreateMealEntry stores a new entry and assigns its ID.
func (s *KVStore) CreateMealEntry(ctx context.Context, e *models.MealLogEntry) error {
	id, err := nextID(s.mealSeq)
	if err != nil {
		return fmt.Errorf("allocate meal id: %w", err)
	}
	stored := *e
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	key := mealKey(stored.UserID, stored.Date, id)
	err = s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, key, &stored); err != nil {
			return err
		}
		return txn.Set(mealIndexKey(id), key)
	})
	if err != nil {
		return fmt.Errorf("insert meal entry: %w", err)
	}
	e.ID = stored.ID
	e.CreatedAt = stored.CreatedAt
	return nil
}

// GetMealEntry retrieves an entry by ID.
func (s *KVStore) GetMealEntry(ctx context.Context, id int64) (*models.MealLogEntry, error) {
	var e models.MealLogEntry
	err := s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(mealIndexKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, key, &e)
	})
	if err != nil {
		return nil, fmt.Errorf("get meal entry %d: %w", id, err)
	}
	return &e, nil
}

// ListMealEntries returns a user's entries for one date, oldest first.
func (s *KVStore) ListMealEntries(ctx context.Context, userID int64, date models.Date) ([]*models.MealLogEntry, error) {
	var entries []*models.MealLogEntry
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, mealDayPrefix(userID, date), nil, func(_, val []byte) error {
			var e models.MealLogEntry
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			entries = append(entries, &e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list meal entries: %w", err)
	}
	return entries, nil
}

// DeleteMealEntry removes an entry scoped to user and date. Missing entries are not an error.
func (s *KVStore) DeleteMealEntry(ctx context.Context, userID int64, date models.Date, id int64) error {
	key := mealKey(userID, date, id)
	err := s.update(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(mealIndexKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete meal entry: %w", err)
	}
	return nil
}

// Daily aggregates

func (s *KVStore) mutateDaily(ctx context.Context, userID int64, date models.Date, fn func(a *models.DailyAggregate)) error {
	key := dailyKey(userID, date)
	return s.update(ctx, func(txn *badger.Txn) error {
		a := models.DailyAggregate{UserID: userID, Date: date}
		if err := getJSON(txn, key, &a); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		fn(&a)
		a.UpdatedAt = time.Now().UTC()
		return setJSON(txn, key, &a)
	})
}

// UpsertDailyNutrients overwrites the nutrient totals for a day, keeping its water.
func (s *KVStore) UpsertDailyNutrients(ctx context.Context, userID int64, date models.Date, n models.Nutrients) error {
	if err := s.mutateDaily(ctx, userID, date, func(a *models.DailyAggregate) { a.SetNutrients(n) }); err != nil {
		return fmt.Errorf("upsert daily nutrients: %w", err)
	}
	return nil
}

// AddWater adds amount to the day's water total, creating the row if needed.
func (s *KVStore) AddWater(ctx context.Context, userID int64, date models.Date, amount float64) error {
	if err := s.mutateDaily(ctx, userID, date, func(a *models.DailyAggregate) { a.WaterML += amount }); err != nil {
		return fmt.Errorf("add water: %w", err)
	}
	return nil
}

// GetDaily retrieves the aggregate for one day.
func (s *KVStore) GetDaily(ctx context.Context, userID int64, date models.Date) (*models.DailyAggregate, error) {
	var a models.DailyAggregate
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, dailyKey(userID, date), &a)
	})
	if err != nil {
		return nil, fmt.Errorf("get daily %s: %w", date, err)
	}
	return &a, nil
}

// ListDaily returns existing aggregates in [start, end], ascending by date.
func (s *KVStore) ListDaily(ctx context.Context, userID int64, start, end models.Date) ([]*models.DailyAggregate, error) {
	var out []*models.DailyAggregate
	prefix := dailyUserPrefix(userID)
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(prefix), []byte(prefix+string(start)), func(key, val []byte) error {
			if models.Date(strings.TrimPrefix(string(key), prefix)) > end {
				return errStopScan
			}
			var a models.DailyAggregate
			if err := json.Unmarshal(val, &a); err != nil {
				return err
			}
			out = append(out, &a)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list daily: %w", err)
	}
	return out, nil
}

// Combo templates

// CreateCombo stores a template with its ordered line items.
func (s *KVStore) CreateCombo(ctx context.Context, c *models.ComboTemplate) error {
	id, err := nextID(s.comboSeq)
	if err != nil {
		return fmt.Errorf("allocate combo id: %w", err)
	}
	stored := *c
	stored.ID = id
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	stored.Items = make([]models.ComboLineItem, len(c.Items))
	for i, li := range c.Items {
		li.Position = i
		stored.Items[i] = li
	}

	key := comboKey(stored.UserID, id)
	err = s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, key, &stored); err != nil {
			return err
		}
		return txn.Set(comboIndexKey(id), key)
	})
	if err != nil {
		return fmt.Errorf("insert combo: %w", err)
	}
	c.ID = stored.ID
	c.CreatedAt = stored.CreatedAt
	c.Items = stored.Items
	return nil
}

// GetCombo retrieves a template by ID.
func (s *KVStore) GetCombo(ctx context.Context, id int64) (*models.ComboTemplate, error) {
	var c models.ComboTemplate
	err := s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(comboIndexKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, key, &c)
	})
	if err != nil {
		return nil, fmt.Errorf("get combo %d: %w", id, err)
	}
	return &c, nil
}

// ListCombos returns a user's templates ordered by ID.
func (s *KVStore) ListCombos(ctx context.Context, userID int64) ([]*models.ComboTemplate, error) {
	var out []*models.ComboTemplate
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(comboUserPrefix(userID)), nil, func(_, val []byte) error {
			var c models.ComboTemplate
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			out = append(out, &c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list combos: %w", err)
	}
	return out, nil
}

// DeleteCombo removes a template. Missing templates are not an error.
func (s *KVStore) DeleteCombo(ctx context.Context, id int64) error {
	err := s.update(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(comboIndexKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(comboIndexKey(id))
	})
	if err != nil {
		return fmt.Errorf("delete combo: %w", err)
	}
	return nil
}

// Weight samples

// UpsertWeight records the weight for (user, date), replacing any existing sample.
func (s *KVStore) UpsertWeight(ctx context.Context, w *models.WeightSample) error {
	key := weightKey(w.UserID, w.Date)
	var stored models.WeightSample
	err := s.update(ctx, func(txn *badger.Txn) error {
		stored = models.WeightSample{}
		err := getJSON(txn, key, &stored)
		switch {
		case errors.Is(err, ErrNotFound):
			id, err := nextID(s.wSeq)
			if err != nil {
				return err
			}
			stored = models.WeightSample{ID: id, UserID: w.UserID, Date: w.Date}
		case err != nil:
			return err
		}
		stored.Weight = w.Weight
		stored.UpdatedAt = w.UpdatedAt
		if stored.UpdatedAt.IsZero() {
			stored.UpdatedAt = time.Now().UTC()
		}
		return setJSON(txn, key, &stored)
	})
	if err != nil {
		return fmt.Errorf("upsert weight: %w", err)
	}
	w.ID = stored.ID
	w.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *KVStore) scanWeights(ctx context.Context, userID int64, start, end models.Date) ([]*models.WeightSample, error) {
	var out []*models.WeightSample
	prefix := weightUserPrefix(userID)
	var seek []byte
	if start != "" {
		seek = []byte(prefix + string(start))
	}
	err := s.view(ctx, func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(prefix), seek, func(key, val []byte) error {
			if end != "" && models.Date(strings.TrimPrefix(string(key), prefix)) > end {
				return errStopScan
			}
			var w models.WeightSample
			if err := json.Unmarshal(val, &w); err != nil {
				return err
			}
			out = append(out, &w)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	return out, nil
}

// ListWeights returns samples in [start, end], ascending by date.
func (s *KVStore) ListWeights(ctx context.Context, userID int64, start, end models.Date) ([]*models.WeightSample, error) {
	return s.scanWeights(ctx, userID, start, end)
}

// ListRecentWeights returns up to limit samples, newest first. A limit <= 0 means all.
func (s *KVStore) ListRecentWeights(ctx context.Context, userID int64, limit int) ([]*models.WeightSample, error) {
	all, err := s.scanWeights(ctx, userID, "", "")
	if err != nil {
		return nil, err
	}
	out := make([]*models.WeightSample, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// GetLatestWeight returns the sample with the latest date.
func (s *KVStore) GetLatestWeight(ctx context.Context, userID int64) (*models.WeightSample, error) {
	recent, err := s.ListRecentWeights(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("get latest weight: %w", ErrNotFound)
	}
	return recent[0], nil
}

// GetAllData retrieves all data for export.
func (s *KVStore) GetAllData(ctx context.Context) (*ExportData, error) {
	data := newExportData()
	err := s.view(ctx, func(txn *badger.Txn) error {
		if err := scanPrefix(txn, []byte(mealPrefix), nil, func(_, val []byte) error {
			var e models.MealLogEntry
			if err := json.Unmarshal(val, &e); err != nil {
				return err
			}
			data.Meals = append(data.Meals, &e)
			return nil
		}); err != nil {
			return err
		}
		if err := scanPrefix(txn, []byte(dailyPrefix), nil, func(_, val []byte) error {
			var a models.DailyAggregate
			if err := json.Unmarshal(val, &a); err != nil {
				return err
			}
			data.Daily = append(data.Daily, &a)
			return nil
		}); err != nil {
			return err
		}
		if err := scanPrefix(txn, []byte(comboPrefix), nil, func(_, val []byte) error {
			var c models.ComboTemplate
			if err := json.Unmarshal(val, &c); err != nil {
				return err
			}
			data.Combos = append(data.Combos, &c)
			return nil
		}); err != nil {
			return err
		}
		return scanPrefix(txn, []byte(weightPrefix), nil, func(_, val []byte) error {
			var w models.WeightSample
			if err := json.Unmarshal(val, &w); err != nil {
				return err
			}
			data.Weights = append(data.Weights, &w)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("export kv data: %w", err)
	}
	sortExport(data)
	return data, nil
}
