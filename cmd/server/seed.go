package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"

	"skillbridge/batch-scheduler/internal/config"
	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/repository/mongo"
	"skillbridge/batch-scheduler/internal/service"
)

var (
	seedAdminName     string
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin user",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminName, "name", "Administrator", "Admin display name")
	seedCmd.Flags().StringVar(&seedAdminEmail, "email", "", "Admin email (required)")
	seedCmd.Flags().StringVar(&seedAdminPassword, "password", "", "Admin password (required)")
	_ = seedCmd.MarkFlagRequired("email")
	_ = seedCmd.MarkFlagRequired("password")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	userRepo := mongo.NewMongoUserRepository(appDB)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := authService.Register(ctx, seedAdminName, seedAdminEmail, seedAdminPassword, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			log.Printf("Admin user %s already exists, nothing to do.", seedAdminEmail)
			return nil
		}
		return err
	}

	log.Printf("Admin user created: %s (%s)", user.Email, user.ID.Hex())
	return nil
}
