package router

import (
	"time"

	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/config"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/handler"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/infra"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/middleware"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/model"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/repository"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/service"
	"github.com/Gonzalo-Montilla/ceaeducardelcauca/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.Origins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	locker := infra.NewLocker(rdb, time.Duration(cfg.LockTTLSeconds)*time.Second)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	egresoRepo := repository.NewEgresoRepository(db)
	estudianteRepo := repository.NewEstudianteRepository(db)
	cajaFuerteRepo := repository.NewCajaFuerteRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaFuerteSvc := service.NewCajaFuerteService(cajaFuerteRepo, auditoriaRepo, locker, cfg.EscuelaNombre)
	cajaSvc := service.NewCajaService(cajaRepo, pagoRepo, egresoRepo, estudianteRepo, cajaFuerteSvc, auditoriaRepo)
	pagoSvc := service.NewPagoService(pagoRepo, cajaRepo, estudianteRepo, cajaFuerteSvc, dispatcher)
	egresoSvc := service.NewEgresoService(egresoRepo, cajaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	egresosH := handler.NewEgresosHandler(egresoSvc)
	cajaFuerteH := handler.NewCajaFuerteHandler(cajaFuerteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		operaCaja := middleware.RequireRole(model.RolAdministrador, model.RolCoordinador, model.RolCajero)

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", operaCaja, cajaH.Abrir)
			caja.PUT("/:id/cerrar", operaCaja, cajaH.Cerrar)
			caja.POST("/pagos", operaCaja, pagosH.Registrar)
			caja.POST("/egresos", operaCaja, egresosH.Registrar)
			caja.GET("/estudiantes/:cedula", operaCaja, pagosH.EstadoFinanciero)

			// any authenticated user
			caja.GET("/actual", cajaH.Actual)
			caja.GET("/dashboard", cajaH.Dashboard)
			caja.GET("/historial", cajaH.Historial)
			caja.GET("/:id", cajaH.ObtenerReporte)
			caja.GET("/:id/pagos", pagosH.ListarPorCaja)
			caja.GET("/:id/egresos", egresosH.ListarPorCaja)
		}

		cf := v1.Group("/caja-fuerte", middleware.RequireRole(model.RolAdministrador, model.RolGerente))
		{
			cf.GET("/resumen", cajaFuerteH.Resumen)
			cf.GET("/movimientos", cajaFuerteH.ListarMovimientos)
			cf.POST("/movimientos", cajaFuerteH.CrearMovimiento)
			cf.GET("/movimientos/exportar", cajaFuerteH.Exportar)
			cf.PUT("/movimientos/:id", cajaFuerteH.ActualizarMovimiento)
			cf.DELETE("/movimientos/:id", cajaFuerteH.EliminarMovimiento)
			cf.POST("/movimientos/:id/eliminar", cajaFuerteH.EliminarConDesglose)
			cf.GET("/movimientos/:id/recibo-pdf", cajaFuerteH.ReciboPDF)
			cf.GET("/movimientos/:id/auditoria", cajaFuerteH.Historial)
			cf.GET("/inventario", cajaFuerteH.ObtenerInventario)
			cf.PUT("/inventario", cajaFuerteH.ActualizarInventario)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole(model.RolAdministrador))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
		}
	}

	// Swagger UI outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
