package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/v1")
	{
		quote := v1.Group("/quote")
		{
			quote.GET("/amount-out", s.handleAmountOut)
			quote.GET("/amount-in", s.handleAmountIn)
			quote.GET("/ratio", s.handleQuote)
			quote.POST("/amounts-out", s.handleAmountsOut)
			quote.POST("/amounts-in", s.handleAmountsIn)
		}

		v1.GET("/pools/:tokenA/:tokenB", s.handleGetPool)
		v1.GET("/params", s.handleGetParams)

		// State-changing routes act as the token subject and are only
		// served when a signing secret is configured.
		if s.config.JWTSecret == "" {
			return
		}
		auth := AuthMiddleware([]byte(s.config.JWTSecret), s.audit)

		swap := v1.Group("/swap")
		swap.Use(auth)
		{
			swap.POST("/exact-input", s.handleSwapExactInput)
			swap.POST("/exact-output", s.handleSwapExactOutput)
		}

		admin := v1.Group("/admin")
		admin.Use(auth)
		{
			admin.POST("/emergency-stop", s.handleSetEmergencyStop)
			admin.PUT("/params", s.handleUpdateParams)
			admin.POST("/pairs", s.handleSetPairAuthorization)
		}
	}
}
