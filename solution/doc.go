// Package solution é o adapter HTTP (net/http) da busca de soluções.
//
// Visão geral (camadas):
//
//   - domain: tipos, erros e portas (sem net/http)
//   - application: embaralhamento, loop de tentativas e renderização
//   - infra: arquivo de identidades, cliente do upstream, chroma, stats
//   - solution (este pacote): rotas, tradução de erro para status e JSON
//
// Fluxo de uma requisição GET /lookup?questionId=...:
//
//  1. Valida o parâmetro (400 se ausente, sem nenhuma chamada ao upstream)
//  2. Recarrega o arquivo de identidades (500 se ilegível ou vazio)
//  3. Tenta até 3 identidades embaralhadas, parando no primeiro sucesso
//  4. Renderiza o código (200) ou devolve o último motivo de falha (404)
package solution
