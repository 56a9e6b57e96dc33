/*
	The REST API has a few central types that are useful to understand when
	adding new endpoints or increasing its functionality.

	Model

	Models are structs that represent the object returned by the API. Each
	model has BuildFromService and, for models accepted in request bodies,
	ToService, which define how to transform to and from the service types in
	the model packages. Fields are pointers so that absent and zero values can
	be told apart.

	Connector

	Connector defines interaction with the backing database. It has two
	implementations: DBConnector, which calls the model packages, and
	MockConnector, which keeps everything in memory for route tests.

	RouteHandler

	Every endpoint is a gimlet.RouteHandler. Factory returns a fresh copy per
	request, Parse reads and validates the request, and Run executes it against
	the Connector. Handlers are registered in route.AttachHandlers, which also
	serves the list of routes at GET /.
*/
package rest
