package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"essence/backend/internal/apierror"
	"essence/backend/internal/dto"
	"essence/backend/internal/model"
	"essence/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. The mutexes stand in for the row locks the
// real repositories take, so the concurrency tests exercise the same
// serialization the services rely on in production.

// ── ProductoRepository stub ───────────────────────────────────────────────────

type stubProductoRepo struct {
	mu        sync.Mutex
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Producto
	for _, p := range r.productos {
		switch filter.Activo {
		case "false":
			if p.Activo {
				continue
			}
		case "all":
		default:
			if !p.Activo {
				continue
			}
		}
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) DescontarDepositoTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.StockDeposito < cantidad {
		return apierror.ErrStockDepositoInsuficiente
	}
	p.StockDeposito -= cantidad
	return nil
}

func (r *stubProductoRepo) IncrementarDepositoTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockDeposito += cantidad
	return nil
}

func (r *stubProductoRepo) ReponerTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockDeposito += cantidad
	p.StockTotal += cantidad
	return nil
}

func (r *stubProductoRepo) SumarVendidasTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.UnidadesVendidas += delta
	return nil
}

func (r *stubProductoRepo) SumarDefectuosasTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.UnidadesDefectuosas += cantidad
	return nil
}

func (r *stubProductoRepo) DescontarDepositoADefectuosoTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.productos[id]
	if !ok || p.StockDeposito < cantidad {
		return apierror.ErrStockDepositoInsuficiente
	}
	p.StockDeposito -= cantidad
	p.UnidadesDefectuosas += cantidad
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── StockRepository stub ──────────────────────────────────────────────────────

type stockKey struct {
	producto     uuid.UUID
	distribuidor uuid.UUID
}

type stubStockRepo struct {
	mu             sync.Mutex
	stocks         map[stockKey]*model.StockDistribuidor
	transferencias []model.TransferenciaStock
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{stocks: make(map[stockKey]*model.StockDistribuidor)}
}

func (r *stubStockRepo) Find(_ context.Context, productoID, distribuidorID uuid.UUID) (*model.StockDistribuidor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[stockKey{productoID, distribuidorID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s
	return &copia, nil
}

func (r *stubStockRepo) ListByDistribuidor(_ context.Context, distribuidorID uuid.UUID) ([]model.StockDistribuidor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockDistribuidor
	for _, s := range r.stocks {
		if s.DistribuidorID == distribuidorID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubStockRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.StockDistribuidor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.StockDistribuidor
	for _, s := range r.stocks {
		if s.ProductoID == productoID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *stubStockRepo) FindForUpdateTx(_ *gorm.DB, productoID, distribuidorID uuid.UUID) (*model.StockDistribuidor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[stockKey{productoID, distribuidorID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Snapshot, so the caller's "antes" values survive the updates that
	// follow inside the same transaction.
	copia := *s
	return &copia, nil
}

func (r *stubStockRepo) IncrementarTx(_ *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey{productoID, distribuidorID}
	s, ok := r.stocks[key]
	if !ok {
		s = &model.StockDistribuidor{
			ID:              uuid.New(),
			ProductoID:      productoID,
			DistribuidorID:  distribuidorID,
			AlertaStockBajo: 5,
		}
		r.stocks[key] = s
	}
	s.Cantidad += cantidad
	return nil
}

func (r *stubStockRepo) CrearSiFaltaTx(_ *gorm.DB, productoID, distribuidorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := stockKey{productoID, distribuidorID}
	if _, ok := r.stocks[key]; !ok {
		r.stocks[key] = &model.StockDistribuidor{
			ID:              uuid.New(),
			ProductoID:      productoID,
			DistribuidorID:  distribuidorID,
			AlertaStockBajo: 5,
		}
	}
	return nil
}

func (r *stubStockRepo) DescontarTx(_ *gorm.DB, productoID, distribuidorID uuid.UUID, cantidad int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[stockKey{productoID, distribuidorID}]
	if !ok || s.Cantidad < cantidad {
		return apierror.ErrStockDistribuidorInsuficiente
	}
	s.Cantidad -= cantidad
	return nil
}

func (r *stubStockRepo) CreateTransferenciaTx(_ *gorm.DB, t *model.TransferenciaStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.transferencias = append(r.transferencias, *t)
	return nil
}

func (r *stubStockRepo) ListTransferencias(_ context.Context, distribuidorID *uuid.UUID, limit int) ([]model.TransferenciaStock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.TransferenciaStock
	for i := len(r.transferencias) - 1; i >= 0; i-- {
		t := r.transferencias[i]
		if distribuidorID != nil && t.OrigenID != *distribuidorID && t.DestinoID != *distribuidorID {
			continue
		}
		result = append(result, t)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// cantidad returns the current pool balance, zero when the row was never
// created.
func (r *stubStockRepo) cantidad(productoID, distribuidorID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stocks[stockKey{productoID, distribuidorID}]
	if !ok {
		return 0
	}
	return s.Cantidad
}

// ── VentaRepository stub ──────────────────────────────────────────────────────

type stubVentaRepo struct {
	mu     sync.Mutex
	ventas map[uuid.UUID]*model.Venta
	orden  []uuid.UUID
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	copia := *v
	r.ventas[v.ID] = &copia
	r.orden = append(r.orden, v.ID)
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Venta
	for _, id := range r.orden {
		v, ok := r.ventas[id]
		if !ok {
			continue
		}
		if filter.DistribuidorID != "" && (v.DistribuidorID == nil || v.DistribuidorID.String() != filter.DistribuidorID) {
			continue
		}
		if filter.EstadoPago != "" && v.EstadoPago != filter.EstadoPago {
			continue
		}
		if filter.Desde != nil && v.FechaVenta.Before(*filter.Desde) {
			continue
		}
		if filter.Hasta != nil && !v.FechaVenta.Before(*filter.Hasta) {
			continue
		}
		result = append(result, *v)
	}
	return result, int64(len(result)), nil
}

func (r *stubVentaRepo) ConfirmarPagoTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.ventas[id]
	if !ok || v.EstadoPago != model.PagoPendiente {
		return 0, nil
	}
	v.EstadoPago = model.PagoConfirmado
	return 1, nil
}

func (r *stubVentaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ventas, id)
	return nil
}

func (r *stubVentaRepo) AgregadosPorDistribuidor(_ context.Context, desde, hasta time.Time) ([]repository.AgregadoVentas, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	porDistribuidor := make(map[uuid.UUID]*repository.AgregadoVentas)
	for _, v := range r.ventas {
		if v.DistribuidorID == nil || v.FechaVenta.Before(desde) || !v.FechaVenta.Before(hasta) {
			continue
		}
		agg, ok := porDistribuidor[*v.DistribuidorID]
		if !ok {
			agg = &repository.AgregadoVentas{
				DistribuidorID: *v.DistribuidorID,
				PrimeraVenta:   v.FechaVenta,
			}
			porDistribuidor[*v.DistribuidorID] = agg
		}
		agg.CantidadVentas++
		agg.TotalUnidades += v.Cantidad
		agg.IngresoTotal = agg.IngresoTotal.Add(v.PrecioVenta.Mul(decimal.NewFromInt(int64(v.Cantidad))))
		agg.GananciaTotal = agg.GananciaTotal.Add(v.GananciaDistribuidor)
		if v.FechaVenta.Before(agg.PrimeraVenta) {
			agg.PrimeraVenta = v.FechaVenta
		}
	}
	result := make([]repository.AgregadoVentas, 0, len(porDistribuidor))
	for _, agg := range porDistribuidor {
		result = append(result, *agg)
	}
	return result, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── GananciaRepository stub ───────────────────────────────────────────────────

// The mutex plays the role of the FOR UPDATE saldo row lock: AppendTx runs
// start to finish under it, so concurrent appends to the same account get
// consecutive sequence numbers and a consistent running balance.
type stubGananciaRepo struct {
	mu       sync.Mutex
	entradas map[uuid.UUID][]model.HistorialGanancia
	saldos   map[uuid.UUID]*model.SaldoUsuario
}

func newStubGananciaRepo() *stubGananciaRepo {
	return &stubGananciaRepo{
		entradas: make(map[uuid.UUID][]model.HistorialGanancia),
		saldos:   make(map[uuid.UUID]*model.SaldoUsuario),
	}
}

func (r *stubGananciaRepo) AppendTx(_ *gorm.DB, entrada *model.HistorialGanancia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saldo, ok := r.saldos[entrada.UsuarioID]
	if !ok {
		saldo = &model.SaldoUsuario{UsuarioID: entrada.UsuarioID, Saldo: decimal.Zero}
		r.saldos[entrada.UsuarioID] = saldo
	}
	entrada.ID = uuid.New()
	entrada.Secuencia = saldo.Secuencia + 1
	entrada.SaldoDespues = saldo.Saldo.Add(entrada.Monto)
	if entrada.Fecha.IsZero() {
		entrada.Fecha = time.Now()
	}
	r.entradas[entrada.UsuarioID] = append(r.entradas[entrada.UsuarioID], *entrada)
	saldo.Saldo = entrada.SaldoDespues
	saldo.Secuencia = entrada.Secuencia
	saldo.UpdatedAt = time.Now()
	return nil
}

func (r *stubGananciaRepo) Saldo(_ context.Context, usuarioID uuid.UUID) (*model.SaldoUsuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	saldo, ok := r.saldos[usuarioID]
	if !ok {
		return &model.SaldoUsuario{UsuarioID: usuarioID, Saldo: decimal.Zero}, nil
	}
	copia := *saldo
	return &copia, nil
}

func (r *stubGananciaRepo) DesglosePorTipo(_ context.Context, usuarioID uuid.UUID) (map[string]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	desglose := make(map[string]decimal.Decimal)
	for _, e := range r.entradas[usuarioID] {
		desglose[e.Tipo] = desglose[e.Tipo].Add(e.Monto)
	}
	return desglose, nil
}

func (r *stubGananciaRepo) Historial(_ context.Context, usuarioID uuid.UUID, filter dto.HistorialFilter) ([]model.HistorialGanancia, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.HistorialGanancia
	for _, e := range r.entradas[usuarioID] {
		if filter.Tipo != "" && e.Tipo != filter.Tipo {
			continue
		}
		if filter.Desde != nil && e.Fecha.Before(*filter.Desde) {
			continue
		}
		if filter.Hasta != nil && !e.Fecha.Before(*filter.Hasta) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Secuencia < result[j].Secuencia })
	return result, int64(len(result)), nil
}

func (r *stubGananciaRepo) DB() *gorm.DB { return nil }

var _ repository.GananciaRepository = (*stubGananciaRepo)(nil)

// ── UsuarioRepository stub ────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindAdmin(_ context.Context) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Rol == model.RolAdmin && u.Activo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) ListDistribuidores(_ context.Context) ([]model.Usuario, error) {
	var result []model.Usuario
	for _, u := range r.usuarios {
		if u.Rol == model.RolDistribuidor && u.Activo {
			result = append(result, *u)
		}
	}
	return result, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── DefectuosoRepository stub ─────────────────────────────────────────────────

type stubDefectuosoRepo struct {
	mu       sync.Mutex
	reportes map[uuid.UUID]*model.ReporteDefectuoso
}

func newStubDefectuosoRepo() *stubDefectuosoRepo {
	return &stubDefectuosoRepo{reportes: make(map[uuid.UUID]*model.ReporteDefectuoso)}
}

func (r *stubDefectuosoRepo) CreateTx(_ *gorm.DB, rep *model.ReporteDefectuoso) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	copia := *rep
	r.reportes[rep.ID] = &copia
	return nil
}

func (r *stubDefectuosoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReporteDefectuoso, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reportes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *rep
	return &copia, nil
}

func (r *stubDefectuosoRepo) TransicionarTx(_ *gorm.DB, id uuid.UUID, estado string, notas *string, confirmadoAt *time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.reportes[id]
	if !ok || rep.Estado != model.DefectoPendiente {
		return 0, nil
	}
	rep.Estado = estado
	if notas != nil {
		rep.NotasAdmin = notas
	}
	if confirmadoAt != nil {
		rep.ConfirmadoAt = confirmadoAt
	}
	return 1, nil
}

func (r *stubDefectuosoRepo) List(_ context.Context, filter dto.DefectuosoFilter) ([]model.ReporteDefectuoso, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.ReporteDefectuoso
	for _, rep := range r.reportes {
		if filter.Estado != "" && rep.Estado != filter.Estado {
			continue
		}
		result = append(result, *rep)
	}
	return result, int64(len(result)), nil
}

func (r *stubDefectuosoRepo) DB() *gorm.DB { return nil }

var _ repository.DefectuosoRepository = (*stubDefectuosoRepo)(nil)

// ── GamificacionRepository stub ───────────────────────────────────────────────

type stubGamificacionRepo struct {
	cfg *model.ConfigGamificacion
}

func newStubGamificacionRepo() *stubGamificacionRepo {
	return &stubGamificacionRepo{cfg: &model.ConfigGamificacion{
		ID:                1,
		PeriodoEvaluacion: model.PeriodoSemanal,
		DiasPersonalizado: 7,
		ComisionBase:      decimal.NewFromInt(20),
		ComisionTop1:      decimal.NewFromInt(5),
		ComisionTop2:      decimal.NewFromInt(3),
		ComisionTop3:      decimal.NewFromInt(2),
		PuntosPorVenta:    decimal.NewFromInt(10),
		PuntosPorPeso:     decimal.NewFromFloat(0.001),
	}}
}

func (r *stubGamificacionRepo) Get(_ context.Context) (*model.ConfigGamificacion, error) {
	return r.cfg, nil
}

func (r *stubGamificacionRepo) Update(_ context.Context, cfg *model.ConfigGamificacion) error {
	r.cfg = cfg
	return nil
}

var _ repository.GamificacionRepository = (*stubGamificacionRepo)(nil)

// ── RankingRepository stub ────────────────────────────────────────────────────

type stubRankingRepo struct {
	mu        sync.Mutex
	ganadores []model.GanadorPeriodo
	niveles   map[uuid.UUID]model.NivelComision
}

func newStubRankingRepo() *stubRankingRepo {
	return &stubRankingRepo{niveles: make(map[uuid.UUID]model.NivelComision)}
}

func (r *stubRankingRepo) CreateGanadorTx(_ *gorm.DB, g *model.GanadorPeriodo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.ganadores {
		if existente.FechaInicio.Equal(g.FechaInicio) && existente.FechaFin.Equal(g.FechaFin) {
			return gorm.ErrDuplicatedKey
		}
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	g.CreatedAt = time.Now()
	r.ganadores = append(r.ganadores, *g)
	return nil
}

func (r *stubRankingRepo) FindGanadorPorVentana(_ context.Context, inicio, fin time.Time) (*model.GanadorPeriodo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ganadores {
		if r.ganadores[i].FechaInicio.Equal(inicio) && r.ganadores[i].FechaFin.Equal(fin) {
			copia := r.ganadores[i]
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRankingRepo) ListGanadores(_ context.Context, limit int) ([]model.GanadorPeriodo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]model.GanadorPeriodo, len(r.ganadores))
	copy(result, r.ganadores)
	sort.Slice(result, func(i, j int) bool { return result[i].FechaFin.After(result[j].FechaFin) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *stubRankingRepo) VictoriasPorDistribuidor(_ context.Context) (map[uuid.UUID]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	victorias := make(map[uuid.UUID]int)
	for _, g := range r.ganadores {
		victorias[g.GanadorID]++
	}
	return victorias, nil
}

func (r *stubRankingRepo) ReemplazarNivelesTx(_ *gorm.DB, niveles []model.NivelComision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.niveles = make(map[uuid.UUID]model.NivelComision, len(niveles))
	for _, n := range niveles {
		r.niveles[n.DistribuidorID] = n
	}
	return nil
}

func (r *stubRankingRepo) FindNivel(_ context.Context, distribuidorID uuid.UUID) (*model.NivelComision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.niveles[distribuidorID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *stubRankingRepo) ListNiveles(_ context.Context) ([]model.NivelComision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	niveles := make([]model.NivelComision, 0, len(r.niveles))
	for _, n := range r.niveles {
		niveles = append(niveles, n)
	}
	return niveles, nil
}

func (r *stubRankingRepo) DB() *gorm.DB { return nil }

var _ repository.RankingRepository = (*stubRankingRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre string, deposito int) *model.Producto {
	p := &model.Producto{
		ID:                 uuid.New(),
		Nombre:             nombre,
		PrecioCompra:       decimal.NewFromFloat(100),
		PrecioDistribuidor: decimal.NewFromFloat(150),
		PrecioCliente:      decimal.NewFromFloat(200),
		StockTotal:         deposito,
		StockDeposito:      deposito,
		AlertaStockBajo:    5,
		Activo:             true,
	}
	repo.productos[p.ID] = p
	return p
}

func seedUsuario(repo *stubUsuarioRepo, nombre, rol string) *model.Usuario {
	u := &model.Usuario{
		ID:     uuid.New(),
		Nombre: nombre,
		Email:  nombre + "@essence.test",
		Rol:    rol,
		Activo: true,
	}
	repo.usuarios[u.ID] = u
	return u
}
