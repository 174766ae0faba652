package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stock-api/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	var (
		user    string
		name    string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token HS256 firmado con JWT_SECRET (pruebas y scripts)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _ := loadConfig()
			if cfg.JWT.Secret == "" {
				return fmt.Errorf("JWT_SECRET no configurado")
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, user, name, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "referencia del usuario (actor de los movimientos)")
	cmd.Flags().StringVar(&name, "name", "", "nombre visible")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "validez en minutos (0 = JWT_EXPIRATION_MINUTES)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
