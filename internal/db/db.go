package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrUnsupportedDialect 表示 DATABASE_URL 的 scheme 无法识别。
var ErrUnsupportedDialect = errors.New("unsupported database url scheme")

// Dialector 根据连接串选择 gorm 驱动：
// postgres:// 与 postgresql:// 使用 pgx，mysql:// 使用 go-sql-driver（去掉 scheme 后按原生 DSN 解析），
// sqlite:// 与 file: 使用 sqlite。
func Dialector(databaseURL string) (gorm.Dialector, error) {
	dsn := strings.TrimSpace(databaseURL)
	switch {
	case dsn == "":
		return nil, errors.New("database url is empty")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://")), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		return sqlite.Open(path), nil
	case strings.HasPrefix(dsn, "file:"):
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDialect, redactDSN(dsn))
	}
}

// Open 打开连接但不做迁移；建表由运维命令负责，请求路径上不执行 DDL。
func Open(databaseURL string) (*gorm.DB, error) {
	dialector, err := Dialector(databaseURL)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return gdb, nil
}

// Close releases the pool behind gdb. A nil gdb is a no-op.
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema 幂等地创建 contact_submissions 表。
func EnsureSchema(gdb *gorm.DB) error {
	if gdb == nil {
		return errors.New("database not initialized")
	}
	return gdb.AutoMigrate(&ContactSubmission{})
}

func redactDSN(dsn string) string {
	if i := strings.Index(dsn, "://"); i >= 0 {
		return dsn[:i+3] + "…"
	}
	if len(dsn) > 8 {
		return dsn[:8] + "…"
	}
	return dsn
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
