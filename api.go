package nameserv

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mvxns/nameserv/common"
	"github.com/mvxns/nameserv/schema"
)

func (r *Registrar) runAPI(port string) {
	e := r.engine
	e.Use(common.CORSMiddleware())
	e.Use(common.LimiterMiddleware(600, "M", nil))
	v1 := e.Group("/")
	{
		// registry
		v1.POST("/domain/register", r.registerDomain)
		v1.GET("/domain/:name", r.getDomain)
		v1.GET("/domain/:name/resolve", r.resolveDomain)
		v1.GET("/domain/:name/keyvalues", r.getKeyValues)
		v1.GET("/domain/:name/orders", r.getDomainOrders)
		v1.POST("/domain/:name/transfer", r.transferDomain)
		v1.POST("/domain/:name/address", r.updatePrimaryAddress)
		v1.POST("/domain/:name/accept", r.acceptDomain)
		v1.POST("/domain/:name/revoke-accept", r.revokeAccept)
		v1.POST("/domain/:name/keyvalue", r.updateKeyValue)
		v1.POST("/domain/:name/profile", r.updateProfile)

		// subdomains
		v1.POST("/subdomain/register", r.registerSubDomain)
		v1.DELETE("/subdomain", r.removeSubDomain)
		v1.GET("/subdomains/:name", r.getSubDomains)

		// migration
		v1.POST("/migrate", r.migrateDomain)
		v1.GET("/reservation/:name", r.getReservation)

		// pricing views
		v1.GET("/fees", r.getFees)
		v1.GET("/rate", r.getRate)

		// admin
		admin := e.Group("/admin")
		admin.Use(common.AdminMiddleware(r.adminKey))
		{
			admin.POST("/price", r.updatePrice)
			admin.POST("/rate/refresh", r.refreshRate)
			admin.POST("/reservations", r.setReservations)
			admin.DELETE("/reservations", r.clearReservations)
			admin.POST("/migration-start/:timestamp", r.setMigrationStart)
			admin.POST("/royalties/:royalties", r.setRoyalties)
			admin.POST("/tld/:tld", r.addAllowedTld)
		}
	}

	if err := e.Run(port); err != nil {
		panic(err)
	}
}

func (r *Registrar) registerDomain(c *gin.Context) {
	req := schema.RegisterReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.Caller == "" {
		errorResponse(c, "caller can not be null")
		return
	}
	resp, err := r.ProcessRegisterOrRenew(req)
	if err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Registrar) getDomain(c *gin.Context) {
	rec, err := r.GetDomain(c.Param("name"))
	if err != nil {
		notFoundResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *Registrar) resolveDomain(c *gin.Context) {
	name := c.Param("name")
	addr, err := r.Resolve(name)
	if err != nil {
		notFoundResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, schema.RespResolve{Name: name, Address: addr})
}

func (r *Registrar) getKeyValues(c *gin.Context) {
	kvs, err := r.store.LoadKeyValues(c.Param("name"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, kvs)
}

func (r *Registrar) getDomainOrders(c *gin.Context) {
	orders, err := r.wdb.GetOrdersByName(c.Param("name"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (r *Registrar) transferDomain(c *gin.Context) {
	req := schema.TransferReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.TransferDomain(c.Param("name"), req.Caller, req.NewOwner); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) updatePrimaryAddress(c *gin.Context) {
	req := schema.AssignReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.UpdatePrimaryAddress(c.Param("name"), req.Caller, req.AssignTo); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) acceptDomain(c *gin.Context) {
	req := schema.AssignReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.Accept(c.Param("name"), req.Caller); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) revokeAccept(c *gin.Context) {
	req := schema.AssignReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.RevokeAcceptRequest(c.Param("name"), req.Caller); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) updateKeyValue(c *gin.Context) {
	req := schema.KeyValueReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if req.Key == "" {
		errorResponse(c, "key can not be null")
		return
	}
	if err := r.UpdateKeyValue(c.Param("name"), req.Caller, req.Key, req.Value); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) updateProfile(c *gin.Context) {
	req := schema.ProfileReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.UpdateProfile(c.Param("name"), req); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) registerSubDomain(c *gin.Context) {
	req := schema.SubDomainReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	resp, err := r.ProcessRegisterSubDomain(req)
	if err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Registrar) removeSubDomain(c *gin.Context) {
	req := schema.SubDomainReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.RemoveSubDomain(req.Name, req.Caller, req.Address); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) getSubDomains(c *gin.Context) {
	subs, err := r.GetSubDomains(c.Param("name"))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (r *Registrar) migrateDomain(c *gin.Context) {
	req := schema.MigrateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	resp, err := r.MigrateDomain(req)
	if err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (r *Registrar) getReservation(c *gin.Context) {
	res, err := r.GetReservation(c.Param("name"))
	if err != nil {
		notFoundResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (r *Registrar) getFees(c *gin.Context) {
	c.JSON(http.StatusOK, r.GetFees())
}

func (r *Registrar) getRate(c *gin.Context) {
	c.JSON(http.StatusOK, r.GetRate())
}

func (r *Registrar) updatePrice(c *gin.Context) {
	req := schema.PriceReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.UpdatePriceUsd(req.Bucket, req.AnnualFee); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) refreshRate(c *gin.Context) {
	if err := r.FetchExchangeRate(); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, r.GetRate())
}

func (r *Registrar) setReservations(c *gin.Context) {
	req := schema.ReservationsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.SetReservations(req.Reservations); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) clearReservations(c *gin.Context) {
	req := schema.ClearReservationsReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.ClearReservations(req.Names); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) setMigrationStart(c *gin.Context) {
	timestamp, err := parseUintParam(c, "timestamp")
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.SetMigrationStart(timestamp); err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) setRoyalties(c *gin.Context) {
	royalties, err := parseUintParam(c, "royalties")
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	if err := r.SetRoyalties(royalties); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (r *Registrar) addAllowedTld(c *gin.Context) {
	if err := r.AddAllowedTld(c.Param("tld")); err != nil {
		registerErrorResponse(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func parseUintParam(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// registerErrorResponse maps domain errors to http status codes.
func registerErrorResponse(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, schema.ErrNotFound), errors.Is(err, schema.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, schema.ErrNotAllowed):
		status = http.StatusForbidden
	case errors.Is(err, schema.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, schema.ErrAlreadyExists), errors.Is(err, schema.ErrNameNotAvailable):
		status = http.StatusConflict
	case errors.Is(err, schema.ErrExternalCall):
		status = http.StatusBadGateway
	}
	c.JSON(status, schema.RespErr{Err: err.Error()})
}

func notFoundResponse(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, schema.RespErr{Err: err.Error()})
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
