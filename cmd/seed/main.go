package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

var seedProducts = []domain.Product{
	{
		Title:       "Wireless Bluetooth Headphones",
		Price:       79.99,
		Description: "Premium noise-cancelling wireless headphones with 30-hour battery life and crystal-clear sound quality.",
		Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=400",
		Category:    "Electronics",
	},
	{
		Title:       "Smart Fitness Watch",
		Price:       149.99,
		Description: "Track your health metrics, receive notifications, and monitor your workouts with this sleek smart watch.",
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=400",
		Category:    "Electronics",
	},
	{
		Title:       "Vintage Leather Backpack",
		Price:       89.99,
		Description: "Handcrafted genuine leather backpack with multiple compartments. Perfect for work or travel.",
		Image:       "https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=400",
		Category:    "Fashion",
	},
	{
		Title:       "Organic Green Tea Set",
		Price:       34.99,
		Description: "Premium organic green tea collection from Japan. Includes 5 different varieties in elegant packaging.",
		Image:       "https://images.unsplash.com/photo-1564890369478-c89ca6d9cde9?w=400",
		Category:    "Food & Beverages",
	},
	{
		Title:       "Minimalist Desk Lamp",
		Price:       59.99,
		Description: "Modern LED desk lamp with adjustable brightness and color temperature. USB charging port included.",
		Image:       "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=400",
		Category:    "Home & Living",
	},
	{
		Title:       "Professional Camera Strap",
		Price:       45.99,
		Description: "Handmade camera strap with premium leather and metal hardware. Fits all DSLR cameras.",
		Image:       "https://images.unsplash.com/photo-1516035069371-29a1b244cc32?w=400",
		Category:    "Photography",
	},
	{
		Title:       "Running Shoes Pro",
		Price:       129.99,
		Description: "Lightweight running shoes with advanced cushioning technology. Designed for marathon runners.",
		Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=400",
		Category:    "Sports",
	},
	{
		Title:       "Artisan Coffee Beans",
		Price:       24.99,
		Description: "Single-origin Arabica coffee beans from Ethiopia. Medium roast with fruity undertones.",
		Image:       "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=400",
		Category:    "Food & Beverages",
	},
	{
		Title:       "Yoga Mat Premium",
		Price:       39.99,
		Description: "Extra thick eco-friendly yoga mat with non-slip surface. Includes carrying strap.",
		Image:       "https://images.unsplash.com/photo-1601925260368-ae2f83cf8b7f?w=400",
		Category:    "Sports",
	},
	{
		Title:       "Wireless Charging Pad",
		Price:       29.99,
		Description: "Fast wireless charging pad compatible with all Qi-enabled devices. LED indicator included.",
		Image:       "https://images.unsplash.com/photo-1591290619762-c588e3b59910?w=400",
		Category:    "Electronics",
	},
}

var seedUsers = []struct {
	Username string
	Email    string
	Password string
}{
	{Username: "johndoe", Email: "john@example.com", Password: "password123"},
	{Username: "janedoe", Email: "jane@example.com", Password: "password123"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	if _, err := pool.Exec(ctx, `TRUNCATE users, products`); err != nil {
		logger.Fatal("failed to clear existing data", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	for _, entry := range seedUsers {
		hash, err := auth.HashPassword(entry.Password, cfg.Auth.BcryptCost)
		if err != nil {
			logger.Fatal("failed to hash password", zap.Error(err))
		}
		user := &domain.User{
			Username:     entry.Username,
			Email:        entry.Email,
			PasswordHash: hash,
			Favorites:    []string{},
		}
		if err := userRepo.Create(ctx, user); err != nil {
			logger.Fatal("failed to seed user", zap.String("email", entry.Email), zap.Error(err))
		}
	}
	logger.Info("seeded users", zap.Int("count", len(seedUsers)))

	for i := range seedProducts {
		product := seedProducts[i]
		if err := productRepo.Create(ctx, &product); err != nil {
			logger.Fatal("failed to seed product", zap.String("title", product.Title), zap.Error(err))
		}
	}
	logger.Info("seeded products", zap.Int("count", len(seedProducts)))

	logger.Info("seed completed",
		zap.String("user_1", "john@example.com / password123"),
		zap.String("user_2", "jane@example.com / password123"))
}
