package store

import (
	"context"

	"github.com/NivBraz/contentfilter-service/internal/models"

	"github.com/pkg/errors"
	"xorm.io/xorm"
)

// Repository persists restricted words. Words are compared exactly; normalization is
// the caller's job.
type Repository interface {
	FindAll(ctx context.Context) ([]*models.RestrictedWord, error)
	// FindByWord returns nil when no row holds word.
	FindByWord(ctx context.Context, word string) (*models.RestrictedWord, error)
	Insert(ctx context.Context, w *models.RestrictedWord) error
	Update(ctx context.Context, w *models.RestrictedWord) error
	Delete(ctx context.Context, w *models.RestrictedWord) error
	// InTx runs fn against a repository bound to one transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(repo Repository) error) error
	Ping(ctx context.Context) error
}

// XormRepository is a Repository backed by an xorm engine.
type XormRepository struct {
	engine *xorm.Engine
	sess   *xorm.Session
}

var _ Repository = &XormRepository{}

func NewXormRepository(engine *xorm.Engine) *XormRepository {
	return &XormRepository{engine: engine}
}

func (r *XormRepository) session(ctx context.Context) *xorm.Session {
	if r.sess != nil {
		return r.sess.Context(ctx)
	}
	return r.engine.Context(ctx)
}

func (r *XormRepository) FindAll(ctx context.Context) ([]*models.RestrictedWord, error) {
	words := make([]*models.RestrictedWord, 0, 16)
	if err := r.session(ctx).Asc("id").Find(&words); err != nil {
		return nil, errors.Wrap(err, "find restricted words")
	}
	return words, nil
}

func (r *XormRepository) FindByWord(ctx context.Context, word string) (*models.RestrictedWord, error) {
	w := new(models.RestrictedWord)
	has, err := r.session(ctx).Where("word = ?", word).Get(w)
	if err != nil {
		return nil, errors.Wrapf(err, "get restricted word %q", word)
	}
	if !has {
		return nil, nil
	}
	return w, nil
}

func (r *XormRepository) Insert(ctx context.Context, w *models.RestrictedWord) error {
	if _, err := r.session(ctx).Insert(w); err != nil {
		return errors.Wrapf(err, "insert restricted word %q", w.Word)
	}
	return nil
}

func (r *XormRepository) Update(ctx context.Context, w *models.RestrictedWord) error {
	if _, err := r.session(ctx).ID(w.ID).Cols("word").Update(w); err != nil {
		return errors.Wrapf(err, "update restricted word %d", w.ID)
	}
	return nil
}

func (r *XormRepository) Delete(ctx context.Context, w *models.RestrictedWord) error {
	if _, err := r.session(ctx).ID(w.ID).Delete(new(models.RestrictedWord)); err != nil {
		return errors.Wrapf(err, "delete restricted word %d", w.ID)
	}
	return nil
}

// InTx reuses the current transaction when called from inside one.
func (r *XormRepository) InTx(ctx context.Context, fn func(repo Repository) error) error {
	if r.sess != nil {
		return fn(r)
	}

	sess := r.engine.NewSession()
	defer sess.Close()
	if err := sess.Begin(); err != nil {
		return errors.Wrap(err, "begin transaction")
	}

	if err := fn(&XormRepository{engine: r.engine, sess: sess}); err != nil {
		return err
	}

	if err := sess.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func (r *XormRepository) Ping(ctx context.Context) error {
	return r.engine.PingContext(ctx)
}
