package docs

// @title           VahanSeva API
// @version         1.0
// @description     Ride booking service: customers book rides by free-text pickup and dropoff, the service geocodes the pickup and assigns the nearest active rider. Supports WebSocket connections for rider notifications.

// @contact.name   API Support

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
