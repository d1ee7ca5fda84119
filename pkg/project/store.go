package project

import (
	"context"

	"go.uber.org/zap"

	"github.com/budova/aptgraph/pkg/store/sqlstore"
	"github.com/budova/aptgraph/pkg/store/xlsxstore"
	"github.com/budova/aptgraph/pkg/writeback"
)

// Store is an open room store.
type Store interface {
	writeback.Accessor
	Close() error
}

// OpenStore opens the store the project names.
func (p *Project) OpenStore(ctx context.Context, logger *zap.Logger) (Store, error) {
	var (
		st  Store
		err error
	)
	switch p.Store.Driver {
	case DriverXLSX:
		st, err = openXLSX(p.StorePath(), p.Store.Sheet, logger)
	case DriverSQLite:
		st, err = openSQL(ctx, sqlstore.DriverSQLite, p.StorePath(), p.Attributes, logger)
	case DriverPostgres:
		st, err = openSQL(ctx, sqlstore.DriverPostgres, p.Store.DSN, p.Attributes, logger)
	default:
		return nil, p.Validate()
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func openXLSX(path, sheet string, logger *zap.Logger) (Store, error) {
	s, err := xlsxstore.Open(path, sheet, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openSQL(ctx context.Context, driver, dsn string, attrs writeback.Attributes, logger *zap.Logger) (Store, error) {
	s, err := sqlstore.Open(ctx, driver, dsn, attrs, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// WatchPath returns the file a watcher should follow, or "" when the
// store is not a local file.
func (p *Project) WatchPath() string {
	if p.Store.Driver == DriverPostgres {
		return ""
	}
	return p.StorePath()
}
