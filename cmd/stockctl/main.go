// stockctl tareas de operación del servicio: migraciones, alta masiva de artículos y tokens de prueba.
//
// Uso:
//
//	stockctl migrate up|down
//	stockctl import-articles planilla.csv [--latin1] [--comma ,]
//	stockctl token --user operario-1 [--name "Operario"] [--minutes 60]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-api/pkg/config"
	"github.com/jhoicas/stock-api/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "stockctl",
		Short:         "Herramientas de operación de stock-api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newMigrateCmd(), newImportArticlesCmd(), newTokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig carga la configuración sin exigir JWT ni storage, y un logger de consola.
func loadConfig() (*config.Config, *logger.Logger) {
	cfg := config.LoadUnchecked()
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel})
	return cfg, log
}
