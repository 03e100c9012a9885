package cmd

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartoza/kartoza-pg-geom/internal/postgres"
	"github.com/kartoza/kartoza-pg-geom/internal/tui"
)

var servicesCmd = &cobra.Command{
	Use:     "services",
	Aliases: []string{"service"},
	Short:   "Manage pg_service.conf connections",
	RunE:    listServices,
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services in pg_service.conf",
	RunE:  listServices,
}

var servicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a service with the connection form",
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := tui.RunServiceEditor(nil)
		if err != nil {
			return err
		}
		if saved == nil {
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", saved.Name, postgres.GetPGServiceFilePath())
		return nil
	},
}

var servicesEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a service with the connection form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := lookupService(args[0])
		if err != nil {
			return err
		}
		saved, err := tui.RunServiceEditor(entry)
		if err != nil {
			return err
		}
		if saved == nil {
			return nil
		}
		if cfg.ActiveService == entry.Name && saved.Name != entry.Name {
			cfg.ActiveService = saved.Name
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", saved.Name)
		return nil
	},
}

var servicesRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a service from pg_service.conf",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := postgres.DeleteServiceEntry(name); err != nil {
			return err
		}
		if cfg.ActiveService == name {
			cfg.ActiveService = ""
			delete(cfg.CachedColumns, name)
			if err := cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
		return nil
	},
}

var servicesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a service the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := lookupService(args[0])
		if err != nil {
			return err
		}
		cfg.ActiveService = entry.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active service: %s\n", entry.Name)
		return nil
	},
}

var servicesTestCmd = &cobra.Command{
	Use:   "test [name]",
	Short: "Check that a service accepts connections",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := serviceName()
		if len(args) == 1 {
			name = args[0]
		}
		if name == "" {
			return fmt.Errorf("no service given; use --service or set an active service")
		}
		entry, err := lookupService(name)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(commandContext(cmd), 10*time.Second)
		defer cancel()
		if err := entry.TestConnection(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: connection OK\n", entry.Name)
		return nil
	},
}

func listServices(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	services, err := postgres.ParsePGServiceFile()
	if errors.Is(err, postgres.ErrNoServiceFile) {
		fmt.Fprintf(out, "No pg_service.conf yet; 'services add' creates %s\n", postgres.GetPGServiceFilePath())
		return nil
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tHOST\tPORT\tDATABASE\tUSER")
	for _, s := range services {
		marker := ""
		if s.Name == cfg.ActiveService {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", marker, s.Name, s.Host, s.Port, s.DBName, s.User)
	}
	return w.Flush()
}

func lookupService(name string) (*postgres.ServiceEntry, error) {
	services, err := postgres.ParsePGServiceFile()
	if err != nil {
		return nil, err
	}
	return postgres.GetServiceByName(services, name)
}

func init() {
	servicesCmd.AddCommand(servicesListCmd)
	servicesCmd.AddCommand(servicesAddCmd)
	servicesCmd.AddCommand(servicesEditCmd)
	servicesCmd.AddCommand(servicesRemoveCmd)
	servicesCmd.AddCommand(servicesUseCmd)
	servicesCmd.AddCommand(servicesTestCmd)
}
