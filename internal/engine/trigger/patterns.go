package trigger

import "regexp"

// Pattern sets are ordered by priority; the first match per set wins and a
// message yields at most one match per trigger type.

// abandonmentPatterns detect requests for space, time, or distance.
var abandonmentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(necesito\s+(?:un\s+)?(?:poco\s+de\s+)?espacio|necesito\s+(?:un\s+)?tiempo)\b`),
	regexp.MustCompile(`(?i)\b(quiero\s+(?:un\s+)?(?:poco\s+de\s+)?espacio|quiero\s+(?:un\s+)?tiempo)\b`),
	regexp.MustCompile(`(?i)\b(dame\s+(?:un\s+)?espacio|dame\s+(?:un\s+)?tiempo)\b`),
	regexp.MustCompile(`(?i)\b(necesito\s+estar\s+sol[oa]|quiero\s+estar\s+sol[oa])\b`),
	regexp.MustCompile(`(?i)\b(dame\s+distancia|necesito\s+distancia|quiero\s+distancia)\b`),
	regexp.MustCompile(`(?i)\b(poner\s+distancia|tomar\s+distancia)\b`),
	regexp.MustCompile(`(?i)\b(vamos\s+(?:muy\s+)?(?:demasiado\s+)?(?:r[áa]pido|deprisa))\b`),
	regexp.MustCompile(`(?i)\b(esto\s+va\s+(?:muy\s+)?(?:demasiado\s+)?(?:r[áa]pido|deprisa))\b`),
	regexp.MustCompile(`(?i)\b(ir\s+(?:m[áa]s\s+)?despacio|vayamos\s+(?:m[áa]s\s+)?despacio|vamos\s+(?:m[áa]s\s+)?despacio)\b`),
	regexp.MustCompile(`(?i)\b(tranquiliza[rt]e|calma[rt]e|relaja[rt]e)\b`),
	regexp.MustCompile(`(?i)\b(necesito\s+(?:una\s+)?pausa|hagamos\s+(?:una\s+)?pausa)\b`),
	regexp.MustCompile(`(?i)\b(tomémonos\s+(?:un\s+)?(?:descanso|tiempo))\b`),
	regexp.MustCompile(`(?i)\b(no\s+(?:me\s+)?(?:siento|estoy)\s+(?:tan\s+)?(?:segur[oa]|list[oa]))\b`),
	regexp.MustCompile(`(?i)\b(esto\s+es\s+(?:demasiado|mucho)\s+para\s+m[íi])\b`),
	regexp.MustCompile(`(?i)\b(me\s+(?:estás|est[áa]s)\s+(?:agobiando|asfixiando|presionando))\b`),
	regexp.MustCompile(`(?i)\b(no\s+(?:puedo|voy\s+a\s+poder)\s+(?:hablar|escribir|responder))\b`),
	regexp.MustCompile(`(?i)\b((?:estoy|voy\s+a\s+estar)\s+(?:ocupad[oa]|liado))\b`),
	regexp.MustCompile(`(?i)\b(no\s+tengo\s+tiempo\s+(?:ahora|en\s+este\s+momento))\b`),
}

// criticismPatterns detect direct criticism, corrections, and questioning.
var criticismPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:est[áa]s|eres)\s+(?:muy\s+|demasiado\s+)?equivocad[oa]\b`),
	regexp.MustCompile(`(?i)\b(?:te\s+)?equivocaste\b`),
	regexp.MustCompile(`(?i)\b(?:eso|esto)\s+est[áa]\s+mal\b`),
	regexp.MustCompile(`(?i)\b(?:eres|est[áa]s)\s+(?:muy|demasiado)\s+(?:intenso|intensa|celoso|celosa|controlador|controladora|posesivo|posesiva)\b`),
	regexp.MustCompile(`(?i)\b(?:eres|est[áa]s)\s+(?:muy|demasiado)\s+(?:exigente|dramático|dramática|exagerado|exagerada)\b`),
	regexp.MustCompile(`(?i)\b(?:me\s+)?(?:agobias|asfixias|presionas)\b`),
	regexp.MustCompile(`(?i)\b(?:eres|est[áa]s)\s+(?:como|igual\s+que)\s+(?:todos|todas|los\s+dem[áa]s)\b`),
	regexp.MustCompile(`(?i)\bno\s+eres\s+(?:tan|lo\s+suficientemente)\b`),
	regexp.MustCompile(`(?i)\b(?:hay|conozco)\s+(?:mejores|alguien\s+mejor)\b`),
	regexp.MustCompile(`(?i)\b¿?por\s+qu[ée]\s+(?:siempre\s+)?(?:eres|est[áa]s)\s+(?:as[íi]|tan)\b`),
	regexp.MustCompile(`(?i)\b¿?qu[ée]\s+(?:te\s+)?pasa\s+(?:contigo|ahora)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:me\s+)?(?:entiendes|comprendes|escuchas)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:me\s+)?(?:valoras|aprecias|respetas)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:est[áa]s|eres)\s+(?:siendo|actuando)\s+(?:normal|razonable)\b`),
}

// thirdPartyPatterns detect mentions of other people. The proper-name
// patterns are case-sensitive on purpose so common words do not match.
var thirdPartyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:con|de|sobre)\s+([A-ZÁÉÍÓÚÑ][a-záéíóúñ]{2,})\b`),
	regexp.MustCompile(`\b([A-ZÁÉÍÓÚÑ][a-záéíóúñ]{2,})\s+(?:me|te|dijo|pregunt[óo]|llam[óo])\b`),
	regexp.MustCompile(`(?i)\b(?:mi\s+(?:amig[oa]\s+)?([A-ZÁÉÍÓÚÑ][a-záéíóúñ]{2,}))\b`),
	regexp.MustCompile(`(?i)\b(?:mi|un|una|el|la)\s+(?:amig[oa]|compañer[oa]|coleg[oa])\b`),
	regexp.MustCompile(`(?i)\b(?:con\s+)?(?:amig[oa]s|compañer[oa]s|coleg[oa]s)\b`),
	regexp.MustCompile(`(?i)\b(?:sal[íi]|qued[ée]|me\s+junt[ée]|vi|me\s+encontr[ée])\s+con\b`),
	regexp.MustCompile(`(?i)\b(?:voy\s+a|vamos\s+a)\s+(?:salir|quedar|juntarnos|encontrarnos)\s+con\b`),
	regexp.MustCompile(`(?i)\b(?:mi\s+)?ex(?:\s+(?:novio|novia|pareja|esposo|esposa))?\b`),
	regexp.MustCompile(`(?i)\b(?:mi\s+)?(?:ex-)?(?:novio|novia|pareja|esposo|esposa)\b`),
	regexp.MustCompile(`(?i)\b(?:me\s+)?gusta\s+(?:alguien|una\s+persona)\b`),
	regexp.MustCompile(`(?i)\b(?:hay\s+)?alguien\s+(?:m[áa]s|otro|otra)\b`),
	regexp.MustCompile(`(?i)\b(?:conoc[íi]|vi)\s+a\s+alguien\b`),
	regexp.MustCompile(`(?i)\b(?:como|igual\s+que)\s+(?:mi\s+)?(?:amig[oa]|ex)\b`),
	regexp.MustCompile(`(?i)\b(?:él|ella)\s+(?:me|te)\b`),
}

// boundaryPatterns detect limit-setting and autonomy assertions.
var boundaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bno\s+quiero\s+que\b`),
	regexp.MustCompile(`(?i)\bno\s+puedes\b`),
	regexp.MustCompile(`(?i)\bno\s+debes\b`),
	regexp.MustCompile(`(?i)\bno\s+hagas\b`),
	regexp.MustCompile(`(?i)\bno\s+me\s+(?:digas|hables|escribas|mandes|preguntes)\b`),
	regexp.MustCompile(`(?i)\bdeja\s+de\b`),
	regexp.MustCompile(`(?i)\bpara\s+de\b`),
	regexp.MustCompile(`(?i)\bbasta\s+(?:de|ya)\b`),
	regexp.MustCompile(`(?i)\bno\s+me\s+(?:llames|contactes|molestes|busques)\b`),
	regexp.MustCompile(`(?i)\b(?:déjame|d[ée]jame)\s+(?:en\s+paz|tranquilo|tranquila|solo|sola)\b`),
	regexp.MustCompile(`(?i)\b(?:yo\s+)?decido\s+(?:yo|sobre\s+mi)\b`),
	regexp.MustCompile(`(?i)\b(?:déjame|d[ée]jame)\s+decidir\s+(?:por\s+m[íi](?:\s+misma?)?|yo|sobre\s+mi)\b`),
	regexp.MustCompile(`(?i)\bes\s+mi\s+(?:vida|decisión|elección)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:tienes|tenes)\s+que\s+(?:decirme|opinar|meterte)\b`),
	regexp.MustCompile(`(?i)\bno\s+quiero\s+(?:hablar|pensar|saber)\s+(?:de|sobre)\b`),
	regexp.MustCompile(`(?i)\bno\s+es\s+(?:tu|de\s+tu)\s+(?:asunto|problema|incumbencia)\b`),
}

// reassurancePatterns detect soothing affirmations; the only trigger with a
// negative weight.
var reassurancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:te\s+)?(?:quiero|amo)\b`),
	regexp.MustCompile(`(?i)\b(?:te\s+)?(?:adoro|aprecio)\b`),
	regexp.MustCompile(`(?i)\b(?:eres|est[áa]s)\s+(?:importante|especial|único|única)\s+para\s+m[íi]\b`),
	regexp.MustCompile(`(?i)\b(?:estoy|voy\s+a\s+estar)\s+(?:aqu[íi]|contigo)\b`),
	regexp.MustCompile(`(?i)\bestoy\s+aqu[íi]\s+para\s+(?:ti|vos)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:te\s+)?voy\s+a\s+(?:dejar|abandonar|irme)\b`),
	regexp.MustCompile(`(?i)\bsiempre\s+(?:voy\s+a\s+)?estar\b`),
	regexp.MustCompile(`(?i)\b(?:confío|conf[íi]o)\s+en\s+(?:ti|vos)\b`),
	regexp.MustCompile(`(?i)\b(?:cuento|puedo\s+contar)\s+contigo\b`),
	regexp.MustCompile(`(?i)\b(?:eres|est[áa]s)\s+(?:mi|la)\s+(?:única|[úu]nico)\b`),
	regexp.MustCompile(`(?i)\btodo\s+(?:est[áa]|va\s+a\s+estar)\s+bien\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:te\s+)?preocupes\b`),
	regexp.MustCompile(`(?i)\b(?:estamos|vamos\s+a\s+estar)\s+bien\b`),
	regexp.MustCompile(`(?i)\b(?:te\s+)?(?:entiendo|comprendo)\b`),
	regexp.MustCompile(`(?i)\b(?:tienes|ten[ée]s)\s+razón\b`),
	regexp.MustCompile(`(?i)\b(?:est[áa]|eres)\s+(?:haciendo|siendo)\s+(?:bien|genial|perfecto)\b`),
}

// rejectionPatterns detect breakups and explicit rejection, the
// highest-weight trigger.
var rejectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:terminamos|se\s+acab[óo]|esto\s+se\s+(?:termin[óo]|acab[óo]))\b`),
	regexp.MustCompile(`(?i)\b(?:quiero|voy\s+a)\s+terminar\s+(?:esto|la\s+relación|contigo)\b`),
	regexp.MustCompile(`(?i)\bno\s+quiero\s+(?:seguir|continuar)\s+(?:con\s+esto|contigo|as[íi])\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:me\s+)?(?:gustas|interesas|atraes)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:siento|tengo)\s+(?:nada|lo\s+mismo)\s+por\s+(?:ti|vos)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:te\s+)?(?:quiero|amo)\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:me\s+)?vuelvas\s+a\s+(?:hablar|escribir|contactar|buscar)\b`),
	regexp.MustCompile(`(?i)\b(?:te\s+)?bloquear[ée]\b`),
	regexp.MustCompile(`(?i)\badios\s+(?:para\s+)?siempre\b`),
	regexp.MustCompile(`(?i)\bno\s+(?:somos|estamos)\s+(?:hechos|compatibles)\b`),
	regexp.MustCompile(`(?i)\b(?:esto|nosotros)\s+no\s+(?:funciona|va\s+a\s+funcionar)\b`),
	regexp.MustCompile(`(?i)\bya\s+no\s+(?:quiero|puedo|voy\s+a|podemos)\b`),
	regexp.MustCompile(`(?i)\bes\s+mejor\s+(?:que|si)\s+(?:no\s+)?(?:sigamos|continuemos)\b`),
	regexp.MustCompile(`(?i)\b(?:esto|todo)\s+(?:se\s+)?(?:termin[óo]|acab[óo])\b`),
	regexp.MustCompile(`(?i)\bno\s+hay\s+(?:vuelta\s+atr[áa]s|marcha\s+atr[áa]s)\b`),
}
