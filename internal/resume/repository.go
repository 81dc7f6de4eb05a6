package resume

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/resume-runner/resume-runner/internal/analytics"
	"github.com/resume-runner/resume-runner/internal/database"
	"github.com/resume-runner/resume-runner/internal/tag"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

const selectVersion = `SELECT rv.id, rv.version_name, rv.filename, rv.description, rv.content_text, rv.word_count,
	rv.target_roles, rv.skills_emphasized, rv.is_master, rv.s3_key, rv.editable_s3_key, rv.editable_filename,
	rv.created_at, rv.updated_at
FROM resume_versions rv`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanVersion(row scanner) (Version, error) {
	var v Version
	err := row.Scan(
		&v.ID,
		&v.VersionName,
		&v.Filename,
		&v.Description,
		&v.ContentText,
		&v.WordCount,
		pq.Array(&v.TargetRoles),
		pq.Array(&v.SkillsEmphasized),
		&v.IsMaster,
		&v.S3Key,
		&v.EditableS3Key,
		&v.EditableFilename,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if v.TargetRoles == nil {
		v.TargetRoles = []string{}
	}
	if v.SkillsEmphasized == nil {
		v.SkillsEmphasized = []string{}
	}
	v.Tags = []tag.Tag{}
	return v, err
}

func (r *Repository) queryVersions(ctx context.Context, stmt string, args ...interface{}) ([]Version, error) {
	res := make([]Version, 0)
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return res, err
	}
	defer rows.Close()
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return res, err
		}
		res = append(res, v)
	}
	if err := rows.Err(); err != nil {
		return res, err
	}
	return res, r.attachTags(ctx, res)
}

// attachTags loads the tags of every version in one query
func (r *Repository) attachTags(ctx context.Context, versions []Version) error {
	if len(versions) == 0 {
		return nil
	}
	ids := make([]int64, len(versions))
	index := make(map[int64]int, len(versions))
	for i, v := range versions {
		ids[i] = v.ID
		index[v.ID] = i
	}
	stmt := `SELECT rt.resume_version_id, t.id, t.name, t.description, t.color, t.created_at
	FROM resume_tags rt
	JOIN tags t ON t.id = rt.tag_id
	WHERE rt.resume_version_id = ANY($1)
	ORDER BY LOWER(t.name)`
	rows, err := r.db.QueryContext(ctx, stmt, pq.Array(ids))
	if err != nil {
		return errors.Wrap(err, "unable to load resume tags")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			versionID int64
			t         tag.Tag
		)
		if err := rows.Scan(&versionID, &t.ID, &t.Name, &t.Description, &t.Color, &t.CreatedAt); err != nil {
			return err
		}
		if i, ok := index[versionID]; ok {
			versions[i].Tags = append(versions[i].Tags, t)
		}
	}
	return rows.Err()
}

// List returns versions newest first with their tags
func (r *Repository) List(ctx context.Context) ([]Version, error) {
	res, err := r.queryVersions(ctx, selectVersion+` ORDER BY rv.is_master DESC, rv.created_at DESC`)
	return res, errors.Wrap(err, "unable to list resume versions")
}

// ListByTags returns versions carrying any of names, or all of them when
// matchAll is set. Names are compared case-insensitively.
func (r *Repository) ListByTags(ctx context.Context, names []string, matchAll bool) ([]Version, error) {
	if len(names) == 0 {
		return r.List(ctx)
	}
	having := ``
	args := []interface{}{pq.Array(names)}
	if matchAll {
		having = ` HAVING COUNT(DISTINCT t.id) = $2`
		args = append(args, len(names))
	}
	stmt := selectVersion + ` WHERE rv.id IN (
		SELECT rt.resume_version_id
		FROM resume_tags rt
		JOIN tags t ON t.id = rt.tag_id
		WHERE LOWER(t.name) = ANY($1)
		GROUP BY rt.resume_version_id` + having + `
	)
	ORDER BY rv.created_at DESC`
	res, err := r.queryVersions(ctx, stmt, args...)
	return res, errors.Wrap(err, "unable to search resume versions by tag")
}

func (r *Repository) Get(ctx context.Context, id int64) (Version, error) {
	v, err := scanVersion(r.db.QueryRowContext(ctx, selectVersion+` WHERE rv.id = $1`, id))
	if err != nil {
		return v, errors.Wrapf(err, "unable to get resume version %d", id)
	}
	versions := []Version{v}
	if err := r.attachTags(ctx, versions); err != nil {
		return v, err
	}
	return versions[0], nil
}

func clearMaster(ctx context.Context, tx *sql.Tx, keep int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE resume_versions SET is_master = FALSE, updated_at = NOW() WHERE is_master AND id <> $1`, keep)
	return errors.Wrap(err, "unable to clear master resume")
}

// Create inserts a version. When it is the master every other version loses the flag.
func (r *Repository) Create(ctx context.Context, v Version) (Version, error) {
	v.WordCount = WordCount(v.ContentText)
	if v.TargetRoles == nil {
		v.TargetRoles = []string{}
	}
	if v.SkillsEmphasized == nil {
		v.SkillsEmphasized = []string{}
	}
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if v.IsMaster {
			if err := clearMaster(ctx, tx, 0); err != nil {
				return err
			}
		}
		stmt := `INSERT INTO resume_versions (version_name, filename, description, content_text, word_count, target_roles,
		skills_emphasized, is_master, s3_key, editable_s3_key, editable_filename)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`
		err := tx.QueryRowContext(
			ctx,
			stmt,
			v.VersionName,
			v.Filename,
			v.Description,
			v.ContentText,
			v.WordCount,
			pq.Array(v.TargetRoles),
			pq.Array(v.SkillsEmphasized),
			v.IsMaster,
			v.S3Key,
			v.EditableS3Key,
			v.EditableFilename,
		).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
		return errors.Wrapf(err, "unable to create resume version %q", v.VersionName)
	})
	v.Tags = []tag.Tag{}
	return v, err
}

func (r *Repository) Update(ctx context.Context, id int64, p Patch) (Version, error) {
	p.WordCount = nil
	if p.ContentText != nil {
		n := WordCount(p.ContentText)
		p.WordCount = &n
	}
	stmt, args, err := database.BuildUpdate("resume_versions", id, p, "updated_at = NOW()")
	if err != nil {
		return Version{}, err
	}
	err = database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if p.IsMaster != nil && *p.IsMaster {
			if err := clearMaster(ctx, tx, id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return errors.Wrapf(err, "unable to update resume version %d", id)
		}
		return database.RequireAffected(res)
	})
	if err != nil {
		return Version{}, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resume_versions WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "unable to delete resume version %d", id)
	}
	return database.RequireAffected(res)
}

func (r *Repository) SuccessMetrics(ctx context.Context) ([]Metrics, error) {
	res := make([]Metrics, 0)
	stmt := `SELECT id, version_name, is_master, total_applications, responses, interviews, offers
	FROM resume_success_metrics
	ORDER BY total_applications DESC, LOWER(version_name)`
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return res, errors.Wrap(err, "unable to load resume success metrics")
	}
	defer rows.Close()
	for rows.Next() {
		var m Metrics
		if err := rows.Scan(&m.ID, &m.VersionName, &m.IsMaster, &m.TotalApplications, &m.Responses, &m.Interviews, &m.Offers); err != nil {
			return res, err
		}
		m.ResponseRate = analytics.Rate(m.Responses, m.TotalApplications)
		m.InterviewRate = analytics.Rate(m.Interviews, m.TotalApplications)
		m.OfferRate = analytics.Rate(m.Offers, m.TotalApplications)
		res = append(res, m)
	}
	return res, rows.Err()
}

func (r *Repository) exists(ctx context.Context, id int64) error {
	var found bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM resume_versions WHERE id = $1)`, id).Scan(&found); err != nil {
		return errors.Wrapf(err, "unable to look up resume version %d", id)
	}
	if !found {
		return sql.ErrNoRows
	}
	return nil
}

func (r *Repository) Tags(ctx context.Context, id int64) ([]tag.Tag, error) {
	res := make([]tag.Tag, 0)
	if err := r.exists(ctx, id); err != nil {
		return res, err
	}
	rows, err := r.db.QueryContext(ctx, `SELECT t.id, t.name, t.description, t.color, t.created_at
	FROM tags t
	JOIN resume_tags rt ON rt.tag_id = t.id
	WHERE rt.resume_version_id = $1
	ORDER BY LOWER(t.name)`, id)
	if err != nil {
		return res, errors.Wrapf(err, "unable to get tags for resume version %d", id)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := tag.Scan(rows)
		if err != nil {
			return res, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// AddTag is idempotent, tagging twice is not an error
func (r *Repository) AddTag(ctx context.Context, id, tagID int64) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO resume_tags (resume_version_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		id,
		tagID,
	)
	return errors.Wrapf(err, "unable to tag resume version %d with %d", id, tagID)
}

func (r *Repository) RemoveTag(ctx context.Context, id, tagID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM resume_tags WHERE resume_version_id = $1 AND tag_id = $2`, id, tagID)
	if err != nil {
		return errors.Wrapf(err, "unable to untag resume version %d", id)
	}
	return database.RequireAffected(res)
}

// SetTags replaces the whole tag set of a version
func (r *Repository) SetTags(ctx context.Context, id int64, tagIDs []int64) ([]tag.Tag, error) {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var found bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM resume_versions WHERE id = $1)`, id).Scan(&found); err != nil {
			return errors.Wrapf(err, "unable to look up resume version %d", id)
		}
		if !found {
			return sql.ErrNoRows
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM resume_tags WHERE resume_version_id = $1`, id); err != nil {
			return errors.Wrapf(err, "unable to clear tags of resume version %d", id)
		}
		if len(tagIDs) == 0 {
			return nil
		}
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO resume_tags (resume_version_id, tag_id) SELECT $1, UNNEST($2::BIGINT[]) ON CONFLICT DO NOTHING`,
			id,
			pq.Array(tagIDs),
		)
		return errors.Wrapf(err, "unable to set tags of resume version %d", id)
	})
	if err != nil {
		return nil, err
	}
	return r.Tags(ctx, id)
}
