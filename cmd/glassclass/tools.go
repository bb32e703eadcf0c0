package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"glassclass/database"
	"glassclass/models"
	"glassclass/services"

	"github.com/spf13/cobra"
)

func predictCommand(a *app) *cobra.Command {
	values := make(map[string]*string, len(models.FieldNames))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify one set of measurements and store the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := make(map[string]string, len(values))
			for name, v := range values {
				raw[name] = *v
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			out, err := a.predictionService(db, nil).Predict(cmd.Context(), raw)
			if err != nil {
				var verr *services.ValidationError
				if errors.As(err, &verr) {
					for _, field := range verr.Fields.Fields() {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, verr.Fields[field])
					}
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Record.String())
			return nil
		},
	}

	for _, name := range models.FieldNames {
		values[name] = cmd.Flags().String(name, "", models.FieldLabels[name])
	}
	return cmd
}

func exportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored prediction as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)

			rows, err := services.NewRecordStore(db).ListAllByIDAscending(cmd.Context())
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			return services.WriteCSV(w, rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout (e.g. "+services.ExportFilename+")")
	return cmd
}

func migrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the prediction table",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer database.Close(db)
			a.logger.Info("migration complete")
			return nil
		},
	}
}
