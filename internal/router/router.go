package router

import (
	"essence/backend/internal/config"
	"essence/backend/internal/handler"
	"essence/backend/internal/middleware"
	"essence/backend/internal/repository"
	"essence/backend/internal/service"
	"essence/backend/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus
// the evaluation worker the pool consumes with.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.EvaluacionWorker) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	stockRepo := repository.NewStockRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	gananciaRepo := repository.NewGananciaRepository(db)
	defectuosoRepo := repository.NewDefectuosoRepository(db)
	gamificacionRepo := repository.NewGamificacionRepository(db)
	rankingRepo := repository.NewRankingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	productoSvc := service.NewProductoService(productoRepo)
	stockSvc := service.NewStockService(productoRepo, stockRepo)
	gananciaSvc := service.NewGananciaService(gananciaRepo)
	comisionSvc := service.NewComisionService(gamificacionRepo, rankingRepo, rdb)
	rankingSvc := service.NewRankingService(ventaRepo, rankingRepo, gamificacionRepo, usuarioRepo, gananciaSvc, comisionSvc, rdb)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, usuarioRepo, stockSvc, gananciaSvc, comisionSvc)
	defectuosoSvc := service.NewDefectuosoService(defectuosoRepo, productoRepo, stockSvc)

	evalWorker := worker.NewEvaluacionWorker(rankingSvc, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	usuariosH := handler.NewUsuariosHandler(usuarioRepo)
	productosH := handler.NewProductosHandler(productoSvc, stockSvc, stockRepo)
	stockH := handler.NewStockHandler(stockSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	gananciasH := handler.NewGananciasHandler(gananciaSvc)
	rankingH := handler.NewRankingHandler(rankingSvc, gamificacionRepo, usuarioRepo, comisionSvc)
	defectuososH := handler.NewDefectuososHandler(defectuosoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Everything else requires a known actor (the gateway authenticates).
	v1 := r.Group("/v1", middleware.Actor())
	{
		usuarios := v1.Group("/usuarios")
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("/:id", usuariosH.Obtener)
			usuarios.GET("/:id/saldo", gananciasH.Saldo)
			usuarios.GET("/:id/ganancias", gananciasH.Historial)
		}
		v1.GET("/distribuidores", usuariosH.ListarDistribuidores)
		v1.GET("/distribuidores/:id/stock", stockH.StockDeDistribuidor)

		productos := v1.Group("/productos")
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.DELETE("/:id", productosH.Desactivar)
			productos.POST("/:id/reponer", productosH.Reponer)
			productos.GET("/:id/stock", productosH.DistribucionStock)
		}

		stock := v1.Group("/stock")
		{
			stock.POST("/asignar", stockH.Asignar)
			stock.POST("/retirar", stockH.Retirar)
			stock.POST("/transferir", stockH.Transferir)
			stock.GET("/transferencias", stockH.ListarTransferencias)
		}

		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.RegistrarVenta)
			ventas.GET("", ventasH.ListarVentas)
			ventas.PATCH("/:id/confirmar-pago", ventasH.ConfirmarPago)
			ventas.DELETE("/:id", ventasH.EliminarVenta)
		}

		v1.POST("/ganancias/ajustes", gananciasH.RegistrarAjuste)

		ranking := v1.Group("/ranking")
		{
			ranking.GET("", rankingH.Obtener)
			ranking.POST("/evaluar", rankingH.EvaluarPeriodo)
			ranking.GET("/ganadores", rankingH.ListarGanadores)
		}
		v1.GET("/gamificacion/config", rankingH.ObtenerConfig)
		v1.PUT("/gamificacion/config", rankingH.ActualizarConfig)

		defectuosos := v1.Group("/defectuosos")
		{
			defectuosos.POST("", defectuososH.Reportar)
			defectuosos.GET("", defectuososH.Listar)
			defectuosos.PATCH("/:id/confirmar", defectuososH.Confirmar)
			defectuosos.PATCH("/:id/rechazar", defectuososH.Rechazar)
		}
	}

	return r, evalWorker
}
