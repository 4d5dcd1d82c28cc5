// Package sqlite provides a SQLite-backed document store. Every entity is a
// JSON document in a single table partitioned by model type.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/mcoot/triviagame/internal/dependencies/random"
	"github.com/mcoot/triviagame/internal/model"
	"github.com/mcoot/triviagame/internal/storage"
	"github.com/mcoot/triviagame/internal/storage/sqlite/migrations"
)

// Storage persists documents in SQLite
type Storage struct {
	db     *sql.DB
	random random.Random
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open opens a SQLite document store and applies embedded migrations
func Open(ctx context.Context, cfg Config, rnd random.Random) (*Storage, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		filepath.Clean(cfg.Path), cfg.BusyTimeoutMillis)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection serialises writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Storage{db: db, random: rnd}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Game operations

func (s *Storage) GetGames(ctx context.Context) ([]*model.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE model_type = ? ORDER BY seq`,
		string(model.KindGame))
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	return scanGames(rows)
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getDocument(ctx, model.KindGame, string(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) GetUserGames(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.body FROM documents d
		 WHERE d.model_type = ?
		   AND EXISTS (
		     SELECT 1 FROM json_each(d.body, '$.players') p
		     WHERE json_extract(p.value, '$.id') = ?
		   )
		 ORDER BY d.seq`,
		string(model.KindGame), string(userID))
	if err != nil {
		return nil, fmt.Errorf("query user games: %w", err)
	}
	return scanGames(rows)
}

// CreateGame inserts the game, redrawing its code while the id is taken
func (s *Storage) CreateGame(ctx context.Context, questions []model.Question) (*model.Game, error) {
	game := storage.NewGame(s.random, questions)
	id, err := storage.ClaimID(s.random, string(game.ID), func(id string) (bool, error) {
		game.ID = model.GameID(id)
		body, err := json.Marshal(game)
		if err != nil {
			return false, err
		}
		result, err := s.db.ExecContext(ctx,
			`INSERT INTO documents (id, model_type, version, body) VALUES (?, ?, ?, ?)
			 ON CONFLICT DO NOTHING`,
			id, string(model.KindGame), game.Version, string(body))
		if err != nil {
			return false, fmt.Errorf("insert game: %w", err)
		}
		return inserted(result)
	})
	if err != nil {
		return nil, err
	}
	game.ID = model.GameID(id)
	return game, nil
}

// UpdateGame replaces the game document if its stored version still matches
func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	next := game.Clone()
	next.Version = game.Version + 1
	body, err := json.Marshal(next)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE documents SET body = ?, version = ?
		 WHERE id = ? AND model_type = ? AND version = ?`,
		string(body), next.Version, string(game.ID), string(model.KindGame), game.Version)
	if err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := s.exists(ctx, model.KindGame, string(game.ID))
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrGameNotFound
		}
		return model.ErrGameConflict
	}

	game.Version = next.Version
	return nil
}

// User operations

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getDocument(ctx, model.KindUser, string(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user unless one with the same name exists, then
// returns whichever user owns the name. A taken id with a free name
// redraws the id.
func (s *Storage) CreateUser(ctx context.Context, name string) (*model.User, error) {
	user := storage.NewUser(s.random, name)
	_, err := storage.ClaimID(s.random, string(user.ID), func(id string) (bool, error) {
		user.ID = model.UserID(id)
		body, err := json.Marshal(user)
		if err != nil {
			return false, err
		}
		result, err := s.db.ExecContext(ctx,
			`INSERT INTO documents (id, model_type, name, body) VALUES (?, ?, ?, ?)
			 ON CONFLICT DO NOTHING`,
			id, string(model.KindUser), name, string(body))
		if err != nil {
			return false, fmt.Errorf("insert user: %w", err)
		}
		ok, err := inserted(result)
		if ok || err != nil {
			return ok, err
		}
		return s.nameTaken(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	var stored string
	err = s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE model_type = ? AND name = ?`,
		string(model.KindUser), name).Scan(&stored)
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", name, err)
	}

	var result model.User
	if err := json.Unmarshal([]byte(stored), &result); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &result, nil
}

func (s *Storage) nameTaken(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM documents WHERE model_type = ? AND name = ?`,
		string(model.KindUser), name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Question operations

func (s *Storage) GetQuestion(ctx context.Context, id model.QuestionID) (*model.Question, error) {
	var question model.Question
	if err := s.getDocument(ctx, model.KindQuestion, string(id), &question, model.ErrQuestionNotFound); err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *Storage) GetQuestions(ctx context.Context) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM documents WHERE model_type = ? ORDER BY seq`,
		string(model.KindQuestion))
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var question model.Question
		if err := json.Unmarshal([]byte(body), &question); err != nil {
			return nil, fmt.Errorf("decode question: %w", err)
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// SaveQuestions replaces the whole question pool in one transaction
func (s *Storage) SaveQuestions(ctx context.Context, questions []model.Question) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM documents WHERE model_type = ?`, string(model.KindQuestion)); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	for _, q := range storage.PrepareQuestions(questions) {
		var body []byte
		body, err = json.Marshal(q)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (id, model_type, body) VALUES (?, ?, ?)
			 ON CONFLICT (id, model_type) DO UPDATE SET body = excluded.body`,
			string(q.ID), string(model.KindQuestion), string(body))
		if err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) getDocument(ctx context.Context, kind model.ModelKind, id string, dest any, notFound error) error {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE id = ? AND model_type = ?`,
		id, string(kind)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("load %s %s: %w", kind, id, err)
	}
	return json.Unmarshal([]byte(body), dest)
}

func (s *Storage) exists(ctx context.Context, kind model.ModelKind, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM documents WHERE id = ? AND model_type = ?`,
		id, string(kind)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func inserted(result sql.Result) (bool, error) {
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func scanGames(rows *sql.Rows) ([]*model.Game, error) {
	defer rows.Close()

	games := []*model.Game{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var game model.Game
		if err := json.Unmarshal([]byte(body), &game); err != nil {
			return nil, fmt.Errorf("decode game: %w", err)
		}
		games = append(games, &game)
	}
	return games, rows.Err()
}
