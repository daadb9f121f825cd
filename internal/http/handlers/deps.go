package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"souq/internal/config"
	"souq/internal/repos"
	"souq/internal/services"
)

// Deps wires repositories, services and handlers together once at startup.
type Deps struct {
	Auth *services.AuthService

	Users      *UserHandler
	Admins     *AdminHandler
	Products   *ProductHandler
	Categories *CategoryHandler
	Images     *ImageHandler
	Ratings    *RatingHandler
	Banners    *BannerHandler
	Orders     *OrderHandler
	Vouchers   *VoucherHandler
	Uploads    *UploadHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	users := repos.NewUserRepo(db)
	admins := repos.NewAdminRepo(db)
	products := repos.NewProductRepo(db)
	categories := repos.NewCategoryRepo(db)
	images := repos.NewImageRepo(db)
	ratings := repos.NewRatingRepo(db)
	banners := repos.NewBannerRepo(db)
	orders := repos.NewOrderRepo(db)
	vouchers := repos.NewVoucherRepo(db)

	auth := services.NewAuthService(users, admins, cfg.JWTSecret,
		time.Duration(cfg.UserTokenHours)*time.Hour,
		time.Duration(cfg.AdminTokenHours)*time.Hour)
	resolver := services.NewBannerResolver(banners, products, categories)
	orderSvc := services.NewOrderService(db, orders, products)
	voucherSvc := services.NewVoucherService(vouchers)
	uploadSvc := services.NewUploadService(cfg.UploadURL, cfg.UploadCDN, cfg.UploadKey, cfg.MediaDir)

	return &Deps{
		Auth:       auth,
		Users:      &UserHandler{Users: users, Auth: auth},
		Admins:     &AdminHandler{Auth: auth},
		Products:   &ProductHandler{Products: products},
		Categories: &CategoryHandler{Categories: categories},
		Images:     &ImageHandler{Images: images},
		Ratings:    &RatingHandler{Ratings: ratings},
		Banners:    &BannerHandler{Banners: banners, Resolver: resolver},
		Orders:     &OrderHandler{Orders: orders, Svc: orderSvc},
		Vouchers:   &VoucherHandler{Vouchers: vouchers, Svc: voucherSvc},
		Uploads:    &UploadHandler{Uploads: uploadSvc},
	}
}
