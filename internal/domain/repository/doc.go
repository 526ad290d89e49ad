// Package repository define los contratos de almacenamiento del dominio.
//
// Las interfaces son independientes del backend; las implementaciones viven
// en internal/store/adapters/ (memory, pg).
//
//	┌───────────────────────────────────────┐
//	│      services (auth, tasks)           │
//	└───────────────────────────────────────┘
//	                   │
//	                   ▼
//	┌───────────────────────────────────────┐
//	│  domain/repository (interfaces)       │
//	│  IdentityRepository, TaskRepository   │
//	└───────────────────────────────────────┘
//	            │               │
//	            ▼               ▼
//	     adapters/memory   adapters/pg
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Ausencia => ErrNotFound; duplicado => ErrConflict
//   - Los adapters devuelven copias, nunca punteros a su estado interno
package repository
