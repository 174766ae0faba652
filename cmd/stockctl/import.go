package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/infrastructure/csvimport"
	"github.com/jhoicas/stock-api/internal/infrastructure/postgres"
)

func newImportArticlesCmd() *cobra.Command {
	var (
		latin1 bool
		comma  string
		actor  string
	)
	cmd := &cobra.Command{
		Use:   "import-articles <archivo.csv>",
		Short: "Alta masiva de artículos desde una planilla CSV",
		Long: "Columnas: código, descripción, unidad, mínimo, saldo inicial, ubicación, qr, categoría.\n" +
			"Los artículos cuyo código o QR ya existe se informan y se saltean.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opt := csvimport.Options{Latin1: latin1}
			if comma != "" {
				r := []rune(comma)
				if len(r) != 1 {
					return fmt.Errorf("--comma debe ser un solo carácter")
				}
				opt.Comma = r[0]
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			rows, err := csvimport.ReadArticles(f, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			cfg, base := loadConfig()
			log := base.Named("import").With("file", args[0])
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := postgres.NewPool(ctx, cfg.DB, base)
			if err != nil {
				return err
			}
			defer pool.Close()

			txRunner := postgres.NewTxRunner(pool)
			repos := postgres.NewRepositories(pool)
			ledger := inventory.NewLedgerUseCase(txRunner, time.Now, base)
			articles := inventory.NewArticleUseCase(txRunner, repos, ledger, time.Now, base)

			var created, skipped int
			for _, row := range rows {
				in := row.Input
				in.Actor = actor
				if _, err := articles.Register(ctx, in); err != nil {
					if domain.KindOf(err) == domain.KindConflict {
						log.Warn().Int("line", row.Line).Str("code", in.Code).Str("reason", domain.CodeOf(err)).Msg("artículo salteado")
						skipped++
						continue
					}
					return fmt.Errorf("línea %d (%s): %w", row.Line, in.Code, err)
				}
				created++
			}
			log.Info().Int("created", created).Int("skipped", skipped).Msg("importación terminada")
			return nil
		},
	}
	cmd.Flags().BoolVar(&latin1, "latin1", false, "archivo en ISO-8859-1")
	cmd.Flags().StringVar(&comma, "comma", ";", "separador de columnas")
	cmd.Flags().StringVar(&actor, "actor", "importacion", "actor registrado en los saldos iniciales")
	return cmd
}
