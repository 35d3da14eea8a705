//go:generate go run go.uber.org/mock/mockgen -source=prediction.go -destination=../mocks/mock_prediction_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const predictionPrefix = "prediction:"

type IPredictionRepository interface {
	StorePrediction(record PredictionRecord) error
	ListPredictions(cursor *string, limit int) ([]PredictionRecord, *string, error)
}

// PredictionRecord is the audit trail of one scored session.
type PredictionRecord struct {
	ID           uuid.UUID      `json:"id"`
	SessionID    string         `json:"session_id"`
	Answers      map[string]any `json:"answers"`
	Label        string         `json:"label"`
	Probability  float64        `json:"probability"`
	ModelVersion string         `json:"model_version"`
	At           time.Time      `json:"at"`
}

type PredictionRepository struct {
	db           *badger.DB
	log          *slog.Logger
	defaultLimit int
}

func NewPredictionRepository(db *badger.DB, log *slog.Logger, defaultLimit int) PredictionRepository {
	return PredictionRepository{db: db, log: log, defaultLimit: defaultLimit}
}

// StorePrediction persists a record under "prediction:{timestamp_padded}:{uuid}".
// The 19-digit zero padding keeps lexicographical order chronological and the
// uuid separates two predictions stored in the same nanosecond.
func (r PredictionRepository) StorePrediction(record PredictionRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	key := fmt.Sprintf("%s%019d:%s", predictionPrefix, record.At.UnixNano(), record.ID)
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// ListPredictions returns the newest records first. The returned cursor is
// the key suffix of the last record and resumes the scan on the next call.
func (r PredictionRepository) ListPredictions(cursor *string, limit int) ([]PredictionRecord, *string, error) {
	if limit <= 0 {
		limit = r.defaultLimit
	}
	var byteRecords [][]byte
	var lastKey string
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(predictionPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start after the newest possible timestamp and walk backwards
			seekKey = append([]byte(predictionPrefix), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(predictionPrefix), []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if len(byteRecords) == limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d predictions reached", limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				byteRecords = append(byteRecords, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	records := make([]PredictionRecord, 0, len(byteRecords))
	for _, b := range byteRecords {
		var record PredictionRecord
		if err := json.Unmarshal(b, &record); err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return records, nil, nil
	}
	return records, lo.ToPtr(lastKey), nil
}
