package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"marketplace-backend/config"
	"marketplace-backend/internal/api/admin"
	"marketplace-backend/internal/api/community"
	"marketplace-backend/internal/api/order"
	"marketplace-backend/internal/api/payment"
	"marketplace-backend/internal/api/product"
	"marketplace-backend/internal/api/shop"
	"marketplace-backend/internal/api/user"
	"marketplace-backend/internal/common"
	"marketplace-backend/internal/lifecycle"
	"marketplace-backend/internal/metrics"
	"marketplace-backend/internal/middleware"
	"marketplace-backend/internal/repository/mysql"
	"marketplace-backend/internal/service"
	"marketplace-backend/internal/storage"
	"marketplace-backend/internal/util"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

type handlers struct {
	auth      *user.AuthHandler
	user      *user.UserHandler
	shop      *shop.ShopHandler
	product   *product.ProductHandler
	order     *order.OrderHandler
	payment   *payment.PaymentHandler
	community *community.CommunityHandler
	admin     *admin.AdminHandler
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()
	cfg := config.AppConfig

	// 初始化日志
	if err := util.InitLogger(cfg.LogLevel); err != nil {
		log.Fatalf("错误：初始化日志失败: %v", err)
	}
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// clientFoundRows 让条件更新在值未变化时也返回匹配行数
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = common.WithRetry(ctx, func(ctx context.Context) error {
		return db.PingContext(ctx)
	}, 5, time.Second)
	cancel()
	if err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	if cfg.DBAutoMigrate {
		if err := mysql.Migrate(context.Background(), db); err != nil {
			util.Logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		util.Logger.Info("数据库迁移完成")
	}

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		util.RegisterValidators(v)
	}

	store, err := storage.New(context.Background(), cfg)
	if err != nil {
		util.Logger.Fatal("初始化存储失败", zap.Error(err), zap.String("driver", cfg.StorageDriver))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	shopRepo := mysql.NewShopRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	paymentRepo := mysql.NewPaymentRepository(db)

	userService := service.NewUserService(userRepo, shopRepo)
	shopService := service.NewShopService(shopRepo, store)
	productService := service.NewProductService(productRepo, shopRepo)
	orderPolicy := lifecycle.NewOrderPolicy(cfg.OrderStatusAllowlist, cfg.OrderEnforceTransitions)
	if orderPolicy.Permissive() {
		util.Logger.Info("订单状态不做校验，任意非空状态直接写入")
	}
	orderService := service.NewOrderService(orderRepo, orderPolicy)
	paymentService := service.NewPaymentService(paymentRepo)
	communityService := service.NewCommunityService(
		mysql.NewReportRepository(db),
		mysql.NewSupportRepository(db),
		mysql.NewMessageRepository(db),
		userRepo,
	)
	statsService := service.NewStatsService(userRepo, shopRepo, productRepo, paymentRepo)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	h := handlers{
		auth:      user.NewAuthHandler(userService),
		user:      user.NewUserHandler(userService),
		shop:      shop.NewShopHandler(shopService),
		product:   product.NewProductHandler(productService),
		order:     order.NewOrderHandler(orderService),
		payment:   payment.NewPaymentHandler(paymentService),
		community: community.NewCommunityHandler(communityService),
		admin:     admin.NewAdminHandler(statsService, errorMonitor),
	}

	r := gin.New()
	// 只采信可信代理转发的 X-Forwarded-For，限流按 ClientIP 计算
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		util.Logger.Fatal("可信代理配置无效", zap.Error(err), zap.Strings("trusted_proxies", cfg.TrustedProxies))
	}
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))
	r.Use(middleware.MetricsMiddleware())
	r.Use(cors.New(corsConfig(cfg.FrontendURL)))

	if cfg.StorageDriver == "" || cfg.StorageDriver == "local" {
		r.Use(uploadsCORS(cfg.FrontendURL))
		r.Static("/uploads", cfg.LocalStoragePath)
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	registerRoutes(r, h, userService, middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	if cfg.Debug {
		for _, route := range r.Routes() {
			util.Logger.Debug("路由",
				zap.String("method", route.Method),
				zap.String("path", route.Path),
				zap.String("handler", route.Handler))
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		util.Logger.Info("服务器正在启动", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

func registerRoutes(r *gin.Engine, h handlers, lookup middleware.UserLookup, limiter *middleware.RateLimiter) {
	requireAuth := middleware.AuthMiddleware(lookup)
	optionalAuth := middleware.OptionalAuth(lookup)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Use(limiter.Middleware())
	{
		auth.POST("/token/", h.auth.Token)
		auth.POST("/token/refresh/", h.auth.Refresh)
	}

	// 店铺
	shops := api.Group("/shop")
	{
		shops.GET("/public/", h.shop.PublicList)
		shops.GET("/", requireAuth, h.shop.AdminGroups)
		shops.GET("/:id/", requireAuth, h.shop.AdminDetail)
		shops.POST("/:id/approve/", requireAuth, h.shop.Approve)
		shops.POST("/:id/reject/", requireAuth, h.shop.Reject)
		shops.GET("/mine/", requireAuth, h.shop.MyShops)
		shops.GET("/mine/:id/", requireAuth, h.shop.MyShopDetail)
		shops.POST("/submit/", requireAuth, h.shop.Submit)
		shops.POST("/:id/upload-document/", requireAuth, h.shop.UploadDocument)
		shops.POST("/:id/upload-attachment/", requireAuth, h.shop.UploadAttachment)
	}

	// 用户和卖家
	users := api.Group("/users")
	{
		users.POST("/register-seller/", limiter.Middleware(), h.user.RegisterSeller)
		users.GET("/", requireAuth, h.user.ListUsers)
		users.GET("/me/", requireAuth, h.user.Me)
		users.GET("/sellers/", requireAuth, h.user.ListSellers)
		users.POST("/sellers/:id/approve/", requireAuth, h.user.ApproveSeller)
		users.POST("/sellers/:id/reject/", requireAuth, h.user.RejectSeller)
	}

	// 商品
	products := api.Group("/products")
	{
		products.GET("/public/", h.product.PublicGroups)
		products.GET("/", requireAuth, h.product.AdminGroups)
		products.POST("/:id/approve/", requireAuth, h.product.Approve)
		products.POST("/:id/reject/", requireAuth, h.product.Reject)
		products.GET("/mine/", requireAuth, h.product.MyProducts)
		products.POST("/submit/", requireAuth, h.product.Submit)
		products.PATCH("/:id/stock/", requireAuth, h.product.UpdateStock)
		products.PATCH("/:id/request-edit/", requireAuth, h.product.RequestEdit)
	}

	// 订单
	orders := api.Group("/orders")
	orders.Use(requireAuth)
	{
		orders.GET("/", h.order.ListOrders)
		orders.GET("/:id/", h.order.GetOrder)
		orders.PATCH("/update-status/", h.order.UpdateStatus)
	}

	// 支付和提现；列表允许匿名访问，匿名时返回空列表
	payments := api.Group("/payments")
	{
		payments.GET("/", optionalAuth, h.payment.ListPayments)
		payments.GET("/payouts/", optionalAuth, h.payment.ListPayouts)
		payments.POST("/payouts/create/", requireAuth, h.payment.CreatePayout)
		payments.POST("/payouts/:id/approve/", requireAuth, h.payment.ApprovePayout)
		payments.POST("/payouts/:id/reject/", requireAuth, h.payment.RejectPayout)
		payments.GET("/payouts/mine/", requireAuth, h.payment.MyPayouts)
		payments.POST("/payouts/mine/:id/cancel/", requireAuth, h.payment.CancelMyPayout)
		payments.POST("/payouts/mine/:id/confirm/", requireAuth, h.payment.ConfirmMyPayout)
	}

	api.GET("/reports/", requireAuth, h.community.ListReports)
	api.GET("/support/", requireAuth, h.community.ListTickets)
	api.POST("/support/", requireAuth, h.community.CreateTicket)
	api.GET("/seller-messages/", requireAuth, h.community.ListMessages)
	api.POST("/seller-messages/", requireAuth, h.community.SendMessage)

	// 管理员路由组
	adminRoutes := api.Group("/admin")
	adminRoutes.Use(requireAuth, middleware.AdminMiddleware())
	{
		adminRoutes.GET("/stats/", h.admin.GetSystemStats)
		adminRoutes.GET("/error-stats/", h.admin.GetErrorStats)
	}
}

func corsConfig(frontendURL string) cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{frontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	return corsConfig
}

// uploadsCORS 本地存储时静态文件的跨域头
func uploadsCORS(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", frontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(http.StatusOK)
				return
			}
		}
		c.Next()
	}
}
