package user

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"github.com/resume-runner/resume-runner/internal/database"
)

var ErrTokenNotFound = errors.New("token not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) SaveTokenSignOn(ctx context.Context, email, token string) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO user_sign_on_token (token, email, created_at) VALUES ($1, $2, $3)`,
		token,
		strings.ToLower(email),
		time.Now().UTC(),
	)
	return errors.Wrap(err, "unable to save sign on token")
}

// GetOrCreateUserFromToken consumes a sign on token and returns its user,
// creating the user on first sign on. The bool reports whether the user
// existed already.
func (r *Repository) GetOrCreateUserFromToken(ctx context.Context, token string) (User, bool, error) {
	var (
		u       User
		existed bool
	)
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			tokenEmail string
			id, email  sql.NullString
			createdAt  sql.NullTime
		)
		row := tx.QueryRowContext(
			ctx,
			`SELECT t.email, u.id, u.email, u.created_at
			FROM user_sign_on_token t
			LEFT JOIN users u ON t.email = u.email
			WHERE t.token = $1 AND t.created_at > NOW() - INTERVAL '1 DAY'`,
			token,
		)
		if err := row.Scan(&tokenEmail, &id, &email, &createdAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrTokenNotFound
			}
			return errors.Wrap(err, "unable to look up sign on token")
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_sign_on_token WHERE token = $1`, token); err != nil {
			return errors.Wrap(err, "unable to consume sign on token")
		}
		if email.Valid {
			existed = true
			u.ID = id.String
			u.Email = email.String
			u.CreatedAt = createdAt.Time
			return nil
		}
		userID, err := ksuid.NewRandom()
		if err != nil {
			return err
		}
		u.ID = userID.String()
		u.Email = tokenEmail
		u.CreatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx, `INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`, u.ID, u.Email, u.CreatedAt)
		return errors.Wrapf(err, "unable to create user %s", u.Email)
	})
	if err != nil {
		return User{}, false, err
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt)
	return u, existed, nil
}

// DeleteExpiredUserSignOnTokens deletes user_sign_on_tokens older than 1 week
func (r *Repository) DeleteExpiredUserSignOnTokens(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sign_on_token WHERE created_at < NOW() - INTERVAL '7 DAYS'`)
	if err != nil {
		return 0, errors.Wrap(err, "unable to delete expired sign on tokens")
	}
	return res.RowsAffected()
}

func (r *Repository) GetUser(ctx context.Context, email string) (User, error) {
	u := User{}
	row := r.db.QueryRowContext(ctx, `SELECT id, email, created_at FROM users WHERE email = $1`, strings.ToLower(email))
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
		return u, errors.Wrapf(err, "unable to get user %s", email)
	}
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt)
	return u, nil
}
