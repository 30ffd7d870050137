package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// API version 1
	api := s.router.Group("/api")
	{
		// Authentication routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", s.handleRegister)
			auth.POST("/login", s.handleLogin)
			auth.POST("/refresh", s.handleRefreshToken)
			auth.POST("/logout", s.handleLogout)
		}

		// Order routes (public read)
		orders := api.Group("/orders")
		{
			orders.GET("", s.handleListOrders)
			orders.GET("/:owner/:dseq/:gseq/:oseq", s.handleGetOrder)
			orders.GET("/:owner/:dseq/:gseq/:oseq/bids", s.handleListOrderBids)
		}

		// Bid routes (public read, protected write)
		bids := api.Group("/bids")
		{
			bids.GET("/:owner/:dseq/:gseq/:oseq/:provider", s.handleGetBid)

			bidsProtected := bids.Group("")
			bidsProtected.Use(s.AuthMiddleware())
			{
				bidsProtected.POST("", s.handlePlaceBid)
				bidsProtected.POST("/close", s.handleCloseBid)
			}
		}

		// Lease routes (public read, protected write)
		leases := api.Group("/leases")
		{
			leases.GET("", s.handleListLeases)
			leases.GET("/:owner/:dseq/:gseq/:oseq/:provider", s.handleGetLease)

			leasesProtected := leases.Group("")
			leasesProtected.Use(s.AuthMiddleware())
			{
				leasesProtected.POST("/close", s.handleCloseLease)
			}
		}

		// Deployment routes (public read, protected write)
		deployments := api.Group("/deployments")
		{
			deployments.GET("", s.handleListDeployments)
			deployments.GET("/:owner/:dseq", s.handleGetDeployment)
			deployments.GET("/:owner/:dseq/groups/:gseq", s.handleGetGroup)

			deploymentsProtected := deployments.Group("")
			deploymentsProtected.Use(s.AuthMiddleware())
			{
				deploymentsProtected.POST("", s.handleCreateDeployment)
				deploymentsProtected.POST("/close", s.handleCloseDeployment)
				deploymentsProtected.POST("/deposit", s.handleDepositDeployment)
			}
		}

		// Escrow routes (public read, protected write)
		escrow := api.Group("/escrow")
		{
			escrow.GET("/account", s.handleGetEscrowAccount)
			escrow.GET("/accounts", s.handleListEscrowAccounts)
			escrow.GET("/balance", s.handleGetEscrowBalance)

			escrowProtected := escrow.Group("")
			escrowProtected.Use(s.AuthMiddleware())
			{
				escrowProtected.POST("/deposit", s.handleDepositEscrow)
				escrowProtected.POST("/withdraw", s.handleWithdrawEscrow)
			}
		}

		// Certificate routes (public read, protected write)
		certs := api.Group("/certs")
		{
			certs.GET("", s.handleListCertificates)
			certs.GET("/:owner/:serial", s.handleGetCertificate)
			certs.GET("/:owner/:serial/validity", s.handleGetCertificateValidity)

			certsProtected := certs.Group("")
			certsProtected.Use(s.AuthMiddleware())
			{
				certsProtected.POST("", s.handleIssueCertificate)
				certsProtected.POST("/revoke", s.handleRevokeCertificate)
			}
		}

		// Provider routes (protected)
		providers := api.Group("/providers")
		providers.Use(s.AuthMiddleware())
		{
			providers.POST("/verify-region", s.handleVerifyRegion)
		}

		// Wallet routes (protected)
		wallet := api.Group("/wallet")
		wallet.Use(s.AuthMiddleware())
		{
			wallet.GET("/balance", s.handleGetBalance)
			wallet.GET("/address", s.handleGetAddress)
			wallet.POST("/send", s.handleSendTokens)
			wallet.GET("/transactions", s.handleGetTransactions)
		}

		// Market data routes (public)
		market := api.Group("/market")
		{
			market.GET("/stats", s.handleGetMarketStats)
		}

		// Chain routes (public)
		chain := api.Group("/chain")
		{
			chain.GET("/status", s.handleGetChainStatus)
			chain.GET("/blocks/:height", s.handleGetBlock)
		}
	}

	// WebSocket endpoint
	s.router.GET("/ws", s.handleWebSocket)
}
