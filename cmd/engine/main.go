package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/robalyx/personaguard/internal/database/types/enum"
	"github.com/robalyx/personaguard/internal/engine"
	"github.com/robalyx/personaguard/internal/setup"
	"github.com/urfave/cli/v3"
)

// EngineLogDir specifies where engine log files are stored.
const EngineLogDir = "logs/engine_logs"

var ErrTextRequired = errors.New("TEXT argument required")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	agentFlag := &cli.StringFlag{
		Name:     "agent",
		Aliases:  []string{"a"},
		Usage:    "Agent identifier",
		Required: true,
	}
	subjectFlag := &cli.StringFlag{
		Name:     "subject",
		Aliases:  []string{"s"},
		Usage:    "Subject (user) identifier",
		Required: true,
	}
	behaviorFlag := &cli.StringFlag{
		Name:     "behavior",
		Aliases:  []string{"b"},
		Usage:    "Behavior type, e.g. YANDERE_OBSESSIVE",
		Required: true,
	}

	app := &cli.Command{
		Name:  "engine",
		Usage: "Behavior progression and content gating engine",
		Commands: []*cli.Command{
			{
				Name:      "message",
				Usage:     "Process a user message through the pipeline",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					agentFlag,
					subjectFlag,
					&cli.BoolFlag{Name: "age-verified", Usage: "Subject passed age verification"},
					&cli.BoolFlag{Name: "restricted", Usage: "Restricted mode enabled for this agent"},
					&cli.TimestampFlag{
						Name:  "last-message-at",
						Usage: "When the previous message was sent (RFC 3339)",
						Config: cli.TimestampConfig{
							Layouts: []string{time.RFC3339},
						},
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return ErrTextRequired
					}

					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						verdict, err := app.Engine.HandleMessage(ctx, c.String("agent"), engine.Subject{
							ID:             c.String("subject"),
							AgeVerified:    c.Bool("age-verified"),
							RestrictedMode: c.Bool("restricted"),
						}, engine.Incoming{
							ID:            uuid.New(),
							Text:          c.Args().First(),
							LastMessageAt: c.Timestamp("last-message-at"),
							ReceivedAt:    time.Now(),
						})
						if err != nil {
							return err
						}

						return printJSON(verdict)
					})
				},
			},
			{
				Name:      "moderate",
				Usage:     "Moderate a generated response for a behavior",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					agentFlag,
					behaviorFlag,
					&cli.BoolFlag{Name: "restricted", Usage: "Restricted mode enabled for this agent"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return ErrTextRequired
					}

					return withApp(ctx, func(ctx context.Context, app *setup.App) error {
						result, err := app.Engine.ModerateResponse(
							ctx, c.String("agent"), enum.BehaviorType(c.String("behavior")),
							c.Args().First(), c.Bool("restricted"))
						if err != nil {
							return err
						}

						return printJSON(result)
					})
				},
			},
			{
				Name:  "profile",
				Usage: "Manage behavior profiles",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Activate a behavior on an agent",
						Flags: []cli.Flag{
							agentFlag,
							behaviorFlag,
							&cli.FloatFlag{Name: "base-intensity", Value: 0.3, Usage: "Starting intensity"},
							&cli.FloatFlag{Name: "volatility", Value: 0.5, Usage: "Reaction volatility"},
							&cli.FloatFlag{Name: "escalation-rate", Value: 0.5, Usage: "How eagerly phases advance"},
							&cli.FloatFlag{Name: "de-escalation-rate", Value: 0.5, Usage: "How quickly calm stretches lower phases"},
						},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withApp(ctx, func(ctx context.Context, app *setup.App) error {
								profile, err := app.DB.Model().Behavior().CreateProfile(
									ctx, c.String("agent"), enum.BehaviorType(c.String("behavior")),
									c.Float("base-intensity"), c.Float("volatility"),
									c.Float("escalation-rate"), c.Float("de-escalation-rate"))
								if err != nil {
									return err
								}

								return printJSON(profile)
							})
						},
					},
					{
						Name:  "reset",
						Usage: "Reset a behavior to phase zero, keeping the audit trail",
						Flags: []cli.Flag{agentFlag, behaviorFlag},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withApp(ctx, func(ctx context.Context, app *setup.App) error {
								return app.DB.Service().Progression().Reset(
									ctx, c.String("agent"), enum.BehaviorType(c.String("behavior")))
							})
						},
					},
					{
						Name:  "delete",
						Usage: "Hard-delete a behavior profile and the agent's trigger log",
						Flags: []cli.Flag{agentFlag, behaviorFlag},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withApp(ctx, func(ctx context.Context, app *setup.App) error {
								return app.DB.Service().Progression().HardDelete(
									ctx, c.String("agent"), enum.BehaviorType(c.String("behavior")))
							})
						},
					},
				},
			},
			{
				Name:  "consent",
				Usage: "Manage the consent ledger",
				Commands: []*cli.Command{
					{
						Name:  "revoke",
						Usage: "Revoke consent for a behavior's critical phase",
						Flags: []cli.Flag{subjectFlag, behaviorFlag},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withApp(ctx, func(ctx context.Context, app *setup.App) error {
								return app.Engine.Gate().RevokeConsent(
									ctx, c.String("subject"), enum.BehaviorType(c.String("behavior")))
							})
						},
					},
					{
						Name:  "revoke-all",
						Usage: "Revoke every consent record for a subject",
						Flags: []cli.Flag{subjectFlag},
						Action: func(ctx context.Context, c *cli.Command) error {
							return withApp(ctx, func(ctx context.Context, app *setup.App) error {
								return app.Engine.Gate().RevokeAllConsent(ctx, c.String("subject"))
							})
						},
					},
				},
			},
		},
	}

	return app.Run(context.Background(), os.Args)
}

// withApp bootstraps the application for one command and tears it down after.
func withApp(ctx context.Context, fn func(ctx context.Context, app *setup.App) error) error {
	app, err := setup.InitializeApp(ctx, EngineLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(ctx)

	return fn(ctx, app)
}

func printJSON(v any) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}
