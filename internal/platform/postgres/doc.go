// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. It also embeds the goose schema migrations.
//
// Every task statement is built from domain conditions and always carries the
// owner predicate user_id = $1.
package postgres
