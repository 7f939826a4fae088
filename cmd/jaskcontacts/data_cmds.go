package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/prefs"
	"github.com/jask/jaskcontacts/internal/service"
	"github.com/jask/jaskcontacts/internal/testdata"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.csv",
		Short: "Import people from CSV (first_name,last_name,email,phone,image_path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			st, err := openStore(cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer st.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := (&service.IngestService{People: st.people}).ImportCSV(withContext(cmd.Context()), f)
			if err != nil {
				return err
			}
			for _, e := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", res.Imported, res.Skipped)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all people as json, yaml or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := service.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg := globalConfig
			st, err := openStore(cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer st.Close()

			people, err := domain.Snapshot(withContext(cmd.Context()), st.people)
			if err != nil {
				return err
			}
			if out == "" {
				return service.Export(cmd.OutOrStdout(), people, f)
			}
			var buf bytes.Buffer
			if err := service.Export(&buf, people, f); err != nil {
				return err
			}
			return prefs.WriteFileAtomic(afero.NewOsFs(), out, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to file instead of stdout")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var n int
	var seed int64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add generated sample people",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			st, err := openStore(cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer st.Close()

			if err := testdata.Seed(withContext(cmd.Context()), st.people, n, seed); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d people\n", n)
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", 25, "Number of people to add")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	return cmd
}

func newDupesCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "dupes",
		Short: "List people that look like duplicates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := globalConfig
			st, err := openStore(cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer st.Close()

			people, err := domain.Snapshot(withContext(cmd.Context()), st.people)
			if err != nil {
				return err
			}
			dupes := service.FindDuplicates(people, threshold)
			w := cmd.OutOrStdout()
			for _, d := range dupes {
				fmt.Fprintf(w, "%s (%s)  ~  %s (%s)  [%s %.2f]\n",
					d.A.FullName(), d.A.ID, d.B.FullName(), d.B.ID, d.Reason, d.Score)
			}
			if len(dupes) == 0 {
				fmt.Fprintln(w, "no duplicates found")
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", service.DefaultNameSimilarity, "Minimum name similarity (0-1)")
	return cmd
}

func newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every person from the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every person; rerun with --yes")
			}
			cfg := globalConfig
			st, err := openStore(cfg, newLogger(cfg, os.Stderr))
			if err != nil {
				return err
			}
			defer st.Close()
			if err := requireLocal(st, "reset"); err != nil {
				return err
			}

			maintenance := &service.MaintenanceService{DB: st.db, People: st.local}
			if err := maintenance.Reset(withContext(cmd.Context())); err != nil {
				return err
			}
			if store, err := prefs.DefaultStore(); err == nil {
				_ = store.SavePeople(nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all people removed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}
