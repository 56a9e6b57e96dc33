/*
	Adding to the Connector

	The Connector defines how the routes reach the state of the store. Methods
	are grouped in files by the resource they access (all item access is in
	data/item.go).

	Extending Connector should only be done when the desired functionality cannot be performed
	using a combination of the methods it already contains.

	To add to the Connector, add the method signature into the interface in
	data/connector.go. Next, add the implementation that interacts with the
	database to DBConnector, and finally an in-memory version to
	MockConnector, which the route tests run against.

	Database backed methods should only call functions of the model packages.
	Queries and update documents belong in the model packages, not here.
*/
package data
