// Package domain define os tipos e contratos da busca de soluções.
//
// Este pacote não depende de net/http nem de implementações concretas:
// identidades, resultados de tentativa (Outcome), a máquina de estados do
// loop de tentativas e as portas (IdentitySource, Upstream, Renderer,
// StatsStore) que a camada infra implementa.
package domain
