// Package config loads declarative resource manifests.
//
// A manifest lists the resources a process needs at startup, keyed by
// URI, with optional driver options:
//
//	resources:
//	  - name: app-db
//	    uri: sqlite:app.db
//	    options:
//	      journal_mode: WAL
//	  - name: scratch
//	    uri: memory://scratch
//
// Manifests load from YAML or JSON files (extension-sniffed) and are
// applied through Provider.Apply, which opens every declared resource.
package config
