package main

import (
	"context"
	"fmt"

	"fasohabita/server/config"
	"fasohabita/server/internal/database"
	"fasohabita/server/internal/logging"
	"fasohabita/server/internal/models"
	"fasohabita/server/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const demoEmail = "contact@fasohabita.bf"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger, logCloser, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	defer logCloser.Close()

	db, err := database.NewDatabase(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	count, err := seed(context.Background(), db, logger)
	if err != nil {
		logger.WithError(err).Fatal("Seeding failed")
	}
	logger.Infof("Seeded %d listings", count)
}

// seed replaces all listings with the demo set owned by the demo user
func seed(ctx context.Context, db *database.Database, logger *logrus.Logger) (int, error) {
	if err := db.ClearListings(ctx); err != nil {
		return 0, err
	}

	owner := demoUser()
	if err := db.UpsertUser(ctx, owner); err != nil {
		return 0, err
	}

	svc := service.NewListingService(db, nil, logger)
	for _, req := range demoListings() {
		if _, err := svc.Create(ctx, req, owner.ID); err != nil {
			return 0, fmt.Errorf("failed to seed %q: %w", req.Title, err)
		}
	}
	return len(demoListings()), nil
}

func demoUser() *models.User {
	email := demoEmail
	first, last := "Faso", "Habita"
	avatar := "https://api.dicebear.com/7.x/avataaars/svg?seed=Faso"
	return &models.User{
		// Stable id so re-seeding keeps the same owner row
		ID:              uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+demoEmail)).String(),
		Email:           &email,
		FirstName:       &first,
		LastName:        &last,
		ProfileImageURL: &avatar,
	}
}

func price(v int64) *int64 { return &v }

func demoListings() []*models.CreateListingRequest {
	return []*models.CreateListingRequest{
		{
			Title:           "Splendide Villa F5 - Ouaga 2000",
			Description:     "Villa de luxe située dans la zone A de Ouaga 2000. 4 chambres, salon spacieux, piscine et garage pour 2 véhicules. Sécurité 24h/24.",
			TransactionType: models.TransactionVente,
			Category:        models.CategoryVilla,
			Price:           price(175000000),
			City:            "Ouagadougou",
			District:        "Ouaga 2000",
			Bedrooms:        4,
			Bathrooms:       3,
			Area:            400,
			Amenities:       []string{"Piscine", "Garage", "Jardin", "Climatisation", "Clôture barbelée"},
			Status:          "disponible",
			Images: []models.ImageInput{
				{URL: "https://images.unsplash.com/photo-1613977257363-707ba9348227?auto=format&fit=crop&q=80&w=2070", IsMain: true},
			},
		},
		{
			Title:           "Chambre-Salon à louer - Karpala",
			Description:     "Entrée-couché propre dans une cour commune calme. Eau et électricité disponibles. Proche du goudron.",
			TransactionType: models.TransactionLocation,
			Category:        models.CategorySharedCourtyard,
			Price:           price(35000),
			City:            "Ouagadougou",
			District:        "Karpala",
			Bedrooms:        1,
			Bathrooms:       1,
			Area:            25,
			Amenities:       []string{"Ventilé", "Carrelé"},
			Status:          "disponible",
			Images: []models.ImageInput{
				{URL: "https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?auto=format&fit=crop&q=80&w=2070", IsMain: true},
			},
		},
		{
			Title:           "Grand Magasin de stockage - Zone Industrielle",
			Description:     "Espace de 500m2 idéal pour stockage de marchandises. Accès facile pour gros camions.",
			TransactionType: models.TransactionLocation,
			Category:        models.CategoryCommercial,
			Price:           price(500000),
			City:            "Bobo-Dioulasso",
			District:        "Zone Industrielle",
			Bedrooms:        0,
			Bathrooms:       1,
			Area:            500,
			Amenities:       []string{"Sécurisé", "Toiture haute"},
			Status:          "disponible",
			Images: []models.ImageInput{
				{URL: "https://images.unsplash.com/photo-1586528116311-ad8dd3c8310d?auto=format&fit=crop&q=80&w=2070", IsMain: true},
			},
		},
	}
}
