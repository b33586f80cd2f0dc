// Package application contém o caso de uso de busca de solução: embaralhar o
// pool, limitar as tentativas, percorrer as identidades em sequência e
// renderizar o primeiro resultado utilizável.
//
// Depende apenas do pacote domain e não conhece net/http.
package application
