package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	employeeHandler employeeHandler
	projectHandler  projectHandler
	uploadHandler   uploadHandler
	healthHandler   healthHandler
}
