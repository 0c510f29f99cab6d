package context

import (
	gocontext "context"
	"time"

	commons "github.com/flanksource/commons/context"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

type Gormable interface {
	DB() *gorm.DB
}

type Poolable interface {
	Pool() *pgxpool.Pool
}

// Context carries the database handles and logger for a single report
// invocation. It is a value type; derived contexts never mutate their parent.
type Context struct {
	commons.Context
}

func NewContext(baseCtx gocontext.Context, opts ...commons.ContextOptions) Context {
	return Context{
		Context: commons.NewContext(baseCtx, opts...),
	}
}

func (k Context) WithTimeout(timeout time.Duration) (Context, gocontext.CancelFunc) {
	ctx, cancelFunc := k.Context.WithTimeout(timeout)
	return Context{
		Context: ctx,
	}, cancelFunc
}

func (k Context) WithDB(db *gorm.DB, pool *pgxpool.Pool) Context {
	return Context{
		Context: k.WithValue("db", db).WithValue("pgxpool", pool),
	}
}

func (k Context) DB() *gorm.DB {
	val := k.Value("db")
	if val == nil {
		return nil
	}

	v, ok := val.(*gorm.DB)
	if !ok {
		return nil
	}

	return v.WithContext(k)
}

func (k Context) Pool() *pgxpool.Pool {
	val := k.Value("pgxpool")
	if val == nil {
		return nil
	}

	v, ok := val.(*pgxpool.Pool)
	if !ok {
		return nil
	}

	return v
}

func (k Context) Wrap(ctx gocontext.Context) Context {
	return NewContext(ctx).WithDB(k.DB(), k.Pool())
}
