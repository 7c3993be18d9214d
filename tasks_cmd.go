package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"opsdash/models"
)

type pruneStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	DeleteTasks(ctx context.Context, ids []string) error
}

func newTasksCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manutenção das tarefas",
	}

	var status string
	var dryRun bool
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Apaga em lote as tarefas com o status informado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			gw, err := newGateway(ctx, cfg)
			if err != nil {
				return err
			}
			_, err = pruneTasks(ctx, gw, models.TaskStatus(status), dryRun, cmd.OutOrStdout())
			return err
		},
	}
	prune.Flags().StringVar(&status, "status", string(models.StatusDone), "status das tarefas a apagar")
	prune.Flags().BoolVar(&dryRun, "dry-run", false, "só lista o que seria apagado")

	cmd.AddCommand(prune)
	return cmd
}

// pruneTasks apaga todas as tarefas com o status dado, em lotes.
func pruneTasks(ctx context.Context, store pruneStore, status models.TaskStatus, dryRun bool, out io.Writer) (int, error) {
	if !status.IsValid() {
		return 0, fmt.Errorf("status inválido: %q", status)
	}
	tasks, err := store.ListTasks(ctx)
	if err != nil {
		return 0, fmt.Errorf("erro ao listar tarefas: %w", err)
	}

	var ids []string
	for _, t := range tasks {
		if t.Status == status {
			ids = append(ids, t.ID)
			fmt.Fprintf(out, "%s\t%s\n", t.ID, t.Title)
		}
	}
	if len(ids) == 0 || dryRun {
		fmt.Fprintf(out, "%d tarefa(s) com status %q\n", len(ids), status)
		return len(ids), nil
	}
	if err := store.DeleteTasks(ctx, ids); err != nil {
		return 0, fmt.Errorf("erro ao apagar tarefas: %w", err)
	}
	fmt.Fprintf(out, "%d tarefa(s) apagada(s)\n", len(ids))
	return len(ids), nil
}
