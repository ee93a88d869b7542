// Package commands defines the checkstore CLI.
//
// Commands
//
//   - fetch     List the records of a model matching criteria
//   - get       Show one record, optionally with an association populated
//   - create    Create a record from a JSON object
//   - update    Merge a JSON object into a record
//   - destroy   Remove a record
//   - indexmap  Show, load or generate DynamoDB index maps
//   - version   Print build information
//
// # Implementation
//
// The root command loads configuration from the environment (and an optional
// .env file), opens the configured backend and builds a Dispatcher before any
// record command runs. Every record command goes through the Dispatcher and
// waits for its callback.
package commands
