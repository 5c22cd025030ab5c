// Package migrations holds the schema migrations. Import it for its
// side effects:
//
//	import _ "github.com/kunalsingla/product-api/database/migrations"
package migrations
