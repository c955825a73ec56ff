// Package loader is the input feed of the simulator. It reads scenario YAML
// documents and process tables from any afs URL (file, mem, embed, cloud
// storage) and turns them into model values. All parsing happens before any
// simulation starts. Scenario documents may reference environment variables
// as ${env.KEY}.
package loader
