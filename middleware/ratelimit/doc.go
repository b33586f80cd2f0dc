// Package ratelimit protege as rotas de busca com rate limit por cliente e
// limite de concorrência.
//
// Cada requisição de busca pode gerar até 3 chamadas ao upstream, então o
// gateway limita quem chama antes de gastar identidades:
//
//  1. Extrai a chave do cliente (header/XFF/IP)
//  2. Consulta o token bucket da chave (golang.org/x/time/rate)
//  3. Se bloqueado, responde 429 em JSON; sem vaga de concorrência, 503
//  4. Se permitido, chama o próximo handler
//
// Rejeições são avisadas via OnReject (ex: para contadores no Redis).
package ratelimit
