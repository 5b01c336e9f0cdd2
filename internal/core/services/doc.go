// Package services contains the application core: the ingestion and
// query coordinators that orchestrate the pipeline through the driven
// ports, and the admin service that manages durable state.
package services
