// Command sqlconsole serves the administrator SQL console and schema
// browser for a project database.
//
// Run with:
//
//	sqlconsole -config sqlconsole.yaml
//
// or, without a file, point it at a database directly:
//
//	SQLCONSOLE_DATABASE="sqlite:/var/trac/project/db/trac.db" sqlconsole -admin alice
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/koustreak/sqlconsole/internal/config"
	"github.com/koustreak/sqlconsole/internal/console"
	"github.com/koustreak/sqlconsole/internal/database/connect"
	"github.com/koustreak/sqlconsole/internal/dialect"
	"github.com/koustreak/sqlconsole/internal/errs"
	"github.com/koustreak/sqlconsole/internal/export"
	"github.com/koustreak/sqlconsole/internal/filestore/minio"
	"github.com/koustreak/sqlconsole/internal/format"
	"github.com/koustreak/sqlconsole/internal/logger"
	"github.com/koustreak/sqlconsole/internal/server"
)

func main() {
	var (
		path  = flag.String("config", "", "path to the YAML config file")
		addr  = flag.String("addr", "", "listen address, overrides server.addr")
		admin = flag.String("admin", "", "comma-separated admin users, added to server.admins")
	)
	flag.Parse()

	cfg, err := loadConfig(*path)
	if err != nil {
		logger.Fatal("invalid configuration: " + errs.Message(err))
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *admin != "" {
		cfg.Server.Admins = append(cfg.Server.Admins, strings.Split(*admin, ",")...)
	}

	log := logger.New(cfg.LoggerConfig())
	logger.SetGlobal(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalf("sqlconsole: %s", errs.Message(err))
	}
}

// loadConfig reads path, or builds the defaults from SQLCONSOLE_DATABASE
// when no file is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Default()
	if dsn := os.Getenv("SQLCONSOLE_DATABASE"); dsn != "" {
		cfg.Database = dsn
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	dbCfg, err := cfg.DatabaseConfig()
	if err != nil {
		return err
	}

	db, err := connect.Open(ctx, dbCfg)
	if err != nil {
		if errs.IsConnectionFailed(err) {
			log.Errorf("could not reach %s database", dbCfg.Conn.Dialect)
		}
		return err
	}
	defer db.Close()

	log.With().
		Str("dialect", db.Dialect().String()).
		Bool("read_only", dbCfg.ReadOnly).
		Logger().
		Info("connected")

	fmtCfg, err := cfg.FormatConfig()
	if err != nil {
		return err
	}

	c := console.New(db, dialect.DefaultRegistry(), format.New(fmtCfg), cfg.ConsoleConfig(), log)

	opts := server.Options{Logger: log}
	if exCfg := cfg.ExportConfig(); exCfg != nil {
		store, err := minio.New(ctx, exCfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Publisher = export.NewPublisher(store, exCfg)
		log.Infof("publishing exports to bucket %s", exCfg.Bucket)
	}

	return server.New(c, cfg.ServerConfig(), opts).ListenAndServe(ctx)
}
