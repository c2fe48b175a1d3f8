// Package config loads learnvue.json, the settings file of the learnvue
// command.
//
// # Configuration File Structure
//
//	{
//	  "reactivity": {"sync": false, "silent": false},
//	  "log": {"level": "info", "format": "text"},
//	  "metrics": {"enabled": true, "namespace": "learnvue"},
//	  "tracing": {"enabled": false},
//	  "serve": {"host": "localhost", "port": 7070},
//	  "s3": {"region": "eu-west-1"}
//	}
//
// Missing fields take their defaults; a missing file is not an error for
// LoadOrDefault.
package config
