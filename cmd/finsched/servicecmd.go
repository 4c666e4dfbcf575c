package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/omarawad11/finsched/internal/core"
	"github.com/spf13/cobra"
)

// program adapts the module runtime to the service manager lifecycle.
type program struct {
	cfgPath string
	app     *core.App
}

// Start implements service.Interface. It must not block.
func (p *program) Start(service.Service) error {
	app, _, err := buildApp(p.cfgPath)
	if err != nil {
		return err
	}
	p.app = app

	if err := app.Start(); err != nil {
		app.Stop()
		return err
	}
	return nil
}

// Stop implements service.Interface.
func (p *program) Stop(service.Service) error {
	if p.app != nil {
		p.app.Stop()
	}
	return nil
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service [install|uninstall|start|stop|run]",
		Short: "Run finsched under the system service manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")

			svcConfig := &service.Config{
				Name:        "finsched",
				DisplayName: "finsched task scheduler",
				Description: "Recurring-task scheduler with agent-backed execution",
				Arguments:   serviceArguments(cfgPath),
			}

			prg := &program{cfgPath: cfgPath}
			svc, err := service.New(prg, svcConfig)
			if err != nil {
				return err
			}

			action := args[0]
			if action == "run" {
				return svc.Run()
			}

			if err := service.Control(svc, action); err != nil {
				return fmt.Errorf("service %s: %w", action, err)
			}
			fmt.Printf("Service %s: done\n", action)
			return nil
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}

// serviceArguments builds the argv the service manager invokes on boot.
func serviceArguments(cfgPath string) []string {
	args := []string{"service", "run"}
	if cfgPath != "" {
		args = append(args, "--config", cfgPath)
	}
	return args
}
